package repogen

import "context"

// Query is the query value handed to query-based capabilities. Its concrete
// type belongs to the storage layer that implements the repository.
type Query = any

// Blocking profile interfaces. A generated {Entity}Repo satisfies the
// interface of every capability it was declared with.
type (
	// FindByID retrieves a record by its identifier.
	FindByID[T, ID any] interface {
		FindByID(id ID) (*T, error)
	}

	// FindOneByQuery retrieves the single record matched by a query.
	FindOneByQuery[T any] interface {
		FindOneByQuery(query Query) (*T, error)
	}

	// FindByQuery retrieves all records matched by a query.
	FindByQuery[T any] interface {
		FindByQuery(query Query) ([]T, error)
	}

	// FindAll retrieves all records of a table.
	FindAll[T any] interface {
		FindAll() ([]T, error)
	}

	// Save inserts a new record and returns the created record.
	Save[T, N any] interface {
		Save(newRecord N) (*T, error)
	}

	// Update updates an existing record and returns the updated version.
	Update[T, U any] interface {
		Update(updateRecord U) (*T, error)
	}

	// Replace replaces a record if it exists or inserts it if not.
	Replace[T any] interface {
		Replace(record T) (*T, error)
	}

	// Delete deletes the record with the given identifier.
	Delete[ID any] interface {
		Delete(id ID) error
	}

	// Count returns the number of records matched by a query.
	Count interface {
		Count(query Query) (int64, error)
	}

	// FindByQueryPaged retrieves one page of the records matched by a query.
	FindByQueryPaged[T any] interface {
		FindByQueryPaged(query Query, page, perPage int64) (*Paged[T], error)
	}

	// FindAllPaged retrieves one page of all records.
	FindAllPaged[T any] interface {
		FindAllPaged(page, perPage int64) (*Paged[T], error)
	}

	// FindByIDBatch retrieves the records matching a batch of identifiers.
	FindByIDBatch[T, ID any] interface {
		FindByIDBatch(ids []ID) ([]T, error)
	}

	// SaveBatch inserts several records at once.
	SaveBatch[T, N any] interface {
		SaveBatch(newRecords []N) ([]T, error)
	}

	// UpdateBatch updates several records at once.
	UpdateBatch[T, U any] interface {
		UpdateBatch(updateRecords []U) ([]T, error)
	}

	// DeleteBatch deletes the records matching a batch of identifiers.
	DeleteBatch[ID any] interface {
		DeleteBatch(ids []ID) error
	}
)

// Suspending profile interfaces. A generated {Entity}AsyncRepo satisfies
// them; every call takes the context that bounds it.
type (
	FindByIDContext[T, ID any] interface {
		FindByID(ctx context.Context, id ID) (*T, error)
	}

	FindOneByQueryContext[T any] interface {
		FindOneByQuery(ctx context.Context, query Query) (*T, error)
	}

	FindByQueryContext[T any] interface {
		FindByQuery(ctx context.Context, query Query) ([]T, error)
	}

	FindAllContext[T any] interface {
		FindAll(ctx context.Context) ([]T, error)
	}

	SaveContext[T, N any] interface {
		Save(ctx context.Context, newRecord N) (*T, error)
	}

	UpdateContext[T, U any] interface {
		Update(ctx context.Context, updateRecord U) (*T, error)
	}

	ReplaceContext[T any] interface {
		Replace(ctx context.Context, record T) (*T, error)
	}

	DeleteContext[ID any] interface {
		Delete(ctx context.Context, id ID) error
	}

	CountContext interface {
		Count(ctx context.Context, query Query) (int64, error)
	}

	FindByQueryPagedContext[T any] interface {
		FindByQueryPaged(ctx context.Context, query Query, page, perPage int64) (*Paged[T], error)
	}

	FindAllPagedContext[T any] interface {
		FindAllPaged(ctx context.Context, page, perPage int64) (*Paged[T], error)
	}

	FindByIDBatchContext[T, ID any] interface {
		FindByIDBatch(ctx context.Context, ids []ID) ([]T, error)
	}

	SaveBatchContext[T, N any] interface {
		SaveBatch(ctx context.Context, newRecords []N) ([]T, error)
	}

	UpdateBatchContext[T, U any] interface {
		UpdateBatch(ctx context.Context, updateRecords []U) ([]T, error)
	}

	DeleteBatchContext[ID any] interface {
		DeleteBatch(ctx context.Context, ids []ID) error
	}
)
