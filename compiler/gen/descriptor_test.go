package gen

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/repogen/compiler/capability"
	"github.com/syssam/repogen/compiler/load"
)

const (
	modelPkg = "github.com/acme/app/model"
	dbPkg    = "github.com/acme/app/db"
)

// declare parses an Account entity carrying the given directives.
func declare(t *testing.T, directives ...string) *load.Options {
	t.Helper()
	var b strings.Builder
	b.WriteString("package model\n\nimport \"github.com/acme/app/db\"\n\n")
	for _, d := range directives {
		b.WriteString(load.DirectivePrefix + d + "\n")
	}
	b.WriteString("type Account struct {\n\tID   string\n\tSub  string\n\tName string\n}\n")
	entities, err := load.ParseFile("account.go", b.String(), modelPkg)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	opts, err := load.ParseOptions(entities[0], capability.Default)
	require.NoError(t, err)
	return opts
}

func resolve(t *testing.T, profile Profile, directives ...string) *Descriptor {
	t.Helper()
	d, err := Resolve(declare(t, directives...), capability.Default, profile)
	require.NoError(t, err)
	return d
}

var accountDirectives = []string{
	"repository(pool = db.Pool, table_ref = accounts)",
	"repo_type(id_type = string)",
	"crud_repo(find_all, save)",
	"paging_repo(find_all)",
}

func TestResolve(t *testing.T) {
	d := resolve(t, Blocking, accountDirectives...)
	account := &load.TypeRef{PkgPath: modelPkg, Name: "Account"}
	assert.Equal(t, account, d.Entity)
	assert.Equal(t, "AccountRepo", d.RepoName)
	assert.Equal(t, Blocking, d.Profile)
	assert.Equal(t, &load.TypeRef{PkgPath: dbPkg, Name: "Pool"}, d.Pool)
	assert.Equal(t, "accounts", d.TableRef)
	assert.Equal(t, &load.TypeRef{Name: "string"}, d.IDType)
	assert.Equal(t, account, d.NewType)
	assert.Equal(t, account, d.UpdateType)
	assert.Equal(t, capability.Set{
		capability.Crud:   {"find_all", "save"},
		capability.Paging: {"find_all"},
	}, d.Capabilities)
	assert.Equal(t, "account.go", d.Pos.Filename)

	d = resolve(t, Suspending, accountDirectives...)
	assert.Equal(t, "AccountAsyncRepo", d.RepoName)
	assert.Equal(t, Suspending, d.Profile)
}

func TestResolve_ExplicitTypes(t *testing.T) {
	d := resolve(t, Blocking,
		"repository(pool = db.Pool, table_ref = accounts)",
		"repo_type(id_type = github.com/google/uuid.UUID, new_type = NewAccount, update_type = db.Patch)",
		"crud_repo(save, update)",
	)
	assert.Equal(t, &load.TypeRef{PkgPath: "github.com/google/uuid", Name: "UUID"}, d.IDType)
	assert.Equal(t, &load.TypeRef{PkgPath: modelPkg, Name: "NewAccount"}, d.NewType)
	assert.Equal(t, &load.TypeRef{PkgPath: dbPkg, Name: "Patch"}, d.UpdateType)
}

func TestResolve_FlatAndListFormsAreEquivalent(t *testing.T) {
	flat := resolve(t, Blocking,
		"repository(pool = db.Pool, table_ref = accounts)",
		"crud_repo(find_all = true, save = true, delete = false)",
		"paging_repo(find_all = true)",
	)
	list := resolve(t, Blocking,
		"repository(pool = db.Pool, table_ref = accounts)",
		"crud_repo(save, find_all)",
		"paging_repo(find_all)",
	)
	// Only the declaration offsets differ.
	flat.Pos.Offset, list.Pos.Offset = 0, 0
	assert.Equal(t, list, flat)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name       string
		directives []string
		option     string
		message    string
	}{
		{
			name:       "MissingPool",
			directives: []string{"repository(table_ref = accounts)", "crud_repo(find_all)"},
			option:     "repository.pool",
			message:    "missing pool",
		},
		{
			name:       "PoolCheckedFirst",
			directives: []string{"crud_repo(delete)"},
			option:     "repository.pool",
			message:    "missing pool",
		},
		{
			name:       "MissingTableRef",
			directives: []string{"repository(pool = db.Pool)", "crud_repo(find_all)"},
			option:     "repository.table_ref",
			message:    "missing table reference",
		},
		{
			name:       "TableRefBeforeIDType",
			directives: []string{"repository(pool = db.Pool)", "crud_repo(delete)"},
			option:     "repository.table_ref",
			message:    "missing table reference",
		},
		{
			name:       "DeleteRequiresIDType",
			directives: []string{"repository(pool = db.Pool, table_ref = accounts)", "crud_repo(delete)"},
			option:     "repo_type.id_type",
			message:    "missing id_type",
		},
		{
			name:       "FindOneRequiresIDType",
			directives: []string{"repository(pool = db.Pool, table_ref = accounts)", "crud_repo(find_one = true)"},
			option:     "repo_type.id_type",
			message:    "missing id_type",
		},
		{
			name:       "BatchFindRequiresIDType",
			directives: []string{"repository(pool = db.Pool, table_ref = accounts)", "batch_repo(find)", "repo_type(new_type = NewAccount)"},
			option:     "repo_type.id_type",
			message:    "missing id_type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(declare(t, tt.directives...), capability.Default, Blocking)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingConfig)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "Account", ce.Entity)
			assert.Equal(t, tt.option, ce.Option)
			assert.Equal(t, tt.message, ce.Message)
		})
	}
}

func TestResolve_IDTypeOnlyWhenNeeded(t *testing.T) {
	for _, decl := range []string{
		"crud_repo(find_all)",
		"crud_repo(find_one_query, find_query, save, update, replace, count)",
		"paging_repo(find_query, find_all)",
		"batch_repo(save, update)",
	} {
		t.Run(decl, func(t *testing.T) {
			d := resolve(t, Blocking, "repository(pool = db.Pool, table_ref = accounts)", decl)
			assert.Nil(t, d.IDType)
		})
	}
}

func TestResolve_IsPure(t *testing.T) {
	opts := declare(t, accountDirectives...)
	d1, err := Resolve(opts, capability.Default, Blocking)
	require.NoError(t, err)
	d2, err := Resolve(opts, capability.Default, Blocking)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	d1.Capabilities[capability.Crud][0] = "changed"
	assert.Equal(t, "find_all", opts.Crud()[0])
}

func TestDescriptor_Serialize(t *testing.T) {
	d := resolve(t, Suspending, accountDirectives...)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "repo_name: AccountAsyncRepo")
	assert.Contains(t, string(out), "profile: suspending")
	assert.Contains(t, string(out), "table_ref: accounts")
	assert.NotContains(t, string(out), "Pos")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"repo_name":"AccountAsyncRepo"`)
	assert.Contains(t, string(data), `"capabilities":{"crud":["find_all","save"],"paging":["find_all"]}`)

	var back Descriptor
	require.NoError(t, json.Unmarshal(data, &back))
	d.Pos = back.Pos
	assert.Equal(t, d, &back)
}
