package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/repogen/compiler/capability"
	"github.com/syssam/repogen/compiler/load"
)

func TestBindings(t *testing.T) {
	d := resolve(t, Blocking, accountDirectives...)
	bindings, err := Bindings(d, capability.Default)
	require.NoError(t, err)
	require.Len(t, bindings, 3)

	account := &load.TypeRef{PkgPath: modelPkg, Name: "Account"}
	assert.Equal(t, "FindAll", bindings[0].Name)
	assert.Equal(t, "find_all", bindings[0].Method)
	assert.Equal(t, "FindAll", bindings[0].Interface)
	assert.Empty(t, bindings[0].Params)
	assert.Equal(t, capability.ReturnList, bindings[0].Returns)
	assert.Equal(t, account, bindings[0].Result(d))

	assert.Equal(t, "Save", bindings[1].Name)
	assert.Equal(t, []*Param{{Name: "newRecord", Type: account}}, bindings[1].Params)
	assert.Equal(t, []*load.TypeRef{account, account}, bindings[1].TypeArgs)

	assert.Equal(t, "FindAllPaged", bindings[2].Name)
	assert.Equal(t, []*Param{
		{Name: "page", Type: &load.TypeRef{Name: "int64"}},
		{Name: "perPage", Type: &load.TypeRef{Name: "int64"}},
	}, bindings[2].Params)
	assert.Equal(t, capability.ReturnPaged, bindings[2].Returns)
}

func TestBindings_OnePerCapability(t *testing.T) {
	tests := []struct {
		decl  []string
		names []string
	}{
		{
			decl:  []string{"crud_repo(find_all)"},
			names: []string{"FindAll"},
		},
		{
			decl:  []string{"crud_repo(count, find_query)", "paging_repo(find_query)"},
			names: []string{"FindByQuery", "Count", "FindByQueryPaged"},
		},
		{
			decl: []string{
				"repo_type(id_type = int64)",
				"batch_repo(delete, find, update, save)",
				"crud_repo(find_one, find_one_query, find_query, find_all, save, update, replace, delete, count)",
				"paging_repo(find_all, find_query)",
			},
			names: []string{
				"FindByID", "FindOneByQuery", "FindByQuery", "FindAll", "Save", "Update", "Replace", "Delete", "Count",
				"FindByQueryPaged", "FindAllPaged",
				"FindByIDBatch", "SaveBatch", "UpdateBatch", "DeleteBatch",
			},
		},
	}
	for _, tt := range tests {
		d := resolve(t, Blocking, append([]string{"repository(pool = db.Pool, table_ref = accounts)"}, tt.decl...)...)
		bindings, err := Bindings(d, capability.Default)
		require.NoError(t, err)
		require.Len(t, bindings, d.Capabilities.Len())
		names := make([]string, len(bindings))
		for i, b := range bindings {
			names[i] = b.Name
		}
		assert.Equal(t, tt.names, names)
	}
}

func TestBindings_Params(t *testing.T) {
	d := resolve(t, Suspending,
		"repository(pool = db.Pool, table_ref = accounts)",
		"repo_type(id_type = int64, new_type = NewAccount, update_type = AccountPatch)",
		"crud_repo(find_one, update, replace, count)",
		"batch_repo(find, save)",
	)
	bindings, err := Bindings(d, capability.Default)
	require.NoError(t, err)
	byName := make(map[string]*Binding, len(bindings))
	for _, b := range bindings {
		byName[b.Name] = b
	}
	id := &load.TypeRef{Name: "int64"}
	account := &load.TypeRef{PkgPath: modelPkg, Name: "Account"}
	newAccount := &load.TypeRef{PkgPath: modelPkg, Name: "NewAccount"}
	patch := &load.TypeRef{PkgPath: modelPkg, Name: "AccountPatch"}

	assert.Equal(t, "FindByIDContext", byName["FindByID"].Interface)
	assert.Equal(t, []*Param{{Name: "id", Type: id}}, byName["FindByID"].Params)
	assert.Equal(t, []*load.TypeRef{account, id}, byName["FindByID"].TypeArgs)
	assert.Equal(t, []*Param{{Name: "updateRecord", Type: patch}}, byName["Update"].Params)
	assert.Equal(t, []*Param{{Name: "record", Type: account}}, byName["Replace"].Params)
	assert.Equal(t, []*Param{{Name: "query", Type: queryType}}, byName["Count"].Params)
	assert.Empty(t, byName["Count"].TypeArgs)
	assert.Nil(t, byName["Count"].Result(d))
	assert.Equal(t, []*Param{{Name: "ids", Type: id, Slice: true}}, byName["FindByIDBatch"].Params)
	assert.Equal(t, []*Param{{Name: "newRecords", Type: newAccount, Slice: true}}, byName["SaveBatch"].Params)
}

func TestBindings_UnknownCapability(t *testing.T) {
	d := resolve(t, Blocking, accountDirectives...)
	reg := capability.MustNew(&capability.Capability{
		Tag:      capability.Tag{Group: capability.Crud, Name: "find_all"},
		Method:   "find_all",
		Returns:  capability.ReturnList,
		TypeArgs: []capability.Kind{capability.KindEntity},
	})
	_, err := Bindings(d, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not registered")
}

func TestBindings_MissingIDType(t *testing.T) {
	d := resolve(t, Blocking, "repository(pool = db.Pool, table_ref = accounts)", "crud_repo(find_all)")
	d.Capabilities = capability.Set{capability.Crud: {"delete"}}
	_, err := Bindings(d, capability.Default)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "missing id_type")
}
