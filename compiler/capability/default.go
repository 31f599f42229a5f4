package capability

var (
	id      = Param{Name: "id", Kind: KindID}
	ids     = Param{Name: "ids", Kind: KindID, Slice: true}
	query   = Param{Name: "query", Kind: KindQuery}
	page    = Param{Name: "page", Kind: KindPage}
	perPage = Param{Name: "per_page", Kind: KindPage}
)

// Default is the registry used by the compiler.
var Default = MustNew(
	// crud_repo
	&Capability{
		Tag:        Tag{Crud, "find_one"},
		Method:     "find_by_id",
		Params:     []Param{id},
		Returns:    ReturnRecord,
		RequiresID: true,
		TypeArgs:   []Kind{KindEntity, KindID},
		Doc:        "returns the record for the given id.",
	},
	&Capability{
		Tag:      Tag{Crud, "find_one_query"},
		Method:   "find_one_by_query",
		Params:   []Param{query},
		Returns:  ReturnRecord,
		TypeArgs: []Kind{KindEntity},
		Doc:      "executes the query and returns its single record.",
	},
	&Capability{
		Tag:      Tag{Crud, "find_query"},
		Method:   "find_by_query",
		Params:   []Param{query},
		Returns:  ReturnList,
		TypeArgs: []Kind{KindEntity},
		Doc:      "executes the query and returns the matching records.",
	},
	&Capability{
		Tag:      Tag{Crud, "find_all"},
		Method:   "find_all",
		Returns:  ReturnList,
		TypeArgs: []Kind{KindEntity},
		Doc:      "returns all records.",
	},
	&Capability{
		Tag:      Tag{Crud, "save"},
		Method:   "save",
		Params:   []Param{{Name: "new_record", Kind: KindNew}},
		Returns:  ReturnRecord,
		TypeArgs: []Kind{KindEntity, KindNew},
		Doc:      "inserts a new record and returns the created record.",
	},
	&Capability{
		Tag:      Tag{Crud, "update"},
		Method:   "update",
		Params:   []Param{{Name: "update_record", Kind: KindUpdate}},
		Returns:  ReturnRecord,
		TypeArgs: []Kind{KindEntity, KindUpdate},
		Doc:      "updates an existing record and returns the updated version.",
	},
	&Capability{
		Tag:      Tag{Crud, "replace"},
		Method:   "replace",
		Params:   []Param{{Name: "record", Kind: KindEntity}},
		Returns:  ReturnRecord,
		TypeArgs: []Kind{KindEntity},
		Doc:      "replaces the record if it exists or inserts it if not.",
	},
	&Capability{
		Tag:        Tag{Crud, "delete"},
		Method:     "delete",
		Params:     []Param{id},
		Returns:    ReturnUnit,
		RequiresID: true,
		TypeArgs:   []Kind{KindID},
		Doc:        "deletes the record with the given id.",
	},
	&Capability{
		Tag:     Tag{Crud, "count"},
		Method:  "count",
		Params:  []Param{query},
		Returns: ReturnCount,
		Doc:     "returns the number of records matched by the query.",
	},

	// paging_repo
	&Capability{
		Tag:      Tag{Paging, "find_query"},
		Method:   "find_by_query_paged",
		Params:   []Param{query, page, perPage},
		Returns:  ReturnPaged,
		TypeArgs: []Kind{KindEntity},
		Doc:      "executes the query and returns one page of its records.",
	},
	&Capability{
		Tag:      Tag{Paging, "find_all"},
		Method:   "find_all_paged",
		Params:   []Param{page, perPage},
		Returns:  ReturnPaged,
		TypeArgs: []Kind{KindEntity},
		Doc:      "returns one page of all records.",
	},

	// batch_repo
	&Capability{
		Tag:        Tag{Batch, "find"},
		Method:     "find_by_id_batch",
		Params:     []Param{ids},
		Returns:    ReturnList,
		RequiresID: true,
		TypeArgs:   []Kind{KindEntity, KindID},
		Doc:        "returns the records matching the given ids.",
	},
	&Capability{
		Tag:      Tag{Batch, "save"},
		Method:   "save_batch",
		Params:   []Param{{Name: "new_records", Kind: KindNew, Slice: true}},
		Returns:  ReturnList,
		TypeArgs: []Kind{KindEntity, KindNew},
		Doc:      "inserts several records at once.",
	},
	&Capability{
		Tag:      Tag{Batch, "update"},
		Method:   "update_batch",
		Params:   []Param{{Name: "update_records", Kind: KindUpdate, Slice: true}},
		Returns:  ReturnList,
		TypeArgs: []Kind{KindEntity, KindUpdate},
		Doc:      "updates several records at once.",
	},
	&Capability{
		Tag:        Tag{Batch, "delete"},
		Method:     "delete_batch",
		Params:     []Param{ids},
		Returns:    ReturnUnit,
		RequiresID: true,
		TypeArgs:   []Kind{KindID},
		Doc:        "deletes the records matching the given ids.",
	},
)
