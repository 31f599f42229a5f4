package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/repogen/compiler/capability"
)

func newGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(append([]Option{WithPackage(modelPkg), WithTarget(t.TempDir())}, opts...)...)
	require.NoError(t, err)
	return g
}

func TestGenRepo(t *testing.T) {
	g := newGenerator(t)
	file, err := g.GenRepo(resolve(t, Blocking, accountDirectives...))
	require.NoError(t, err)
	require.NotNil(t, file)

	code := file.GoString()
	assert.Contains(t, code, "// Code generated by repogen. DO NOT EDIT.")
	assert.Contains(t, code, "package model")
	assert.Contains(t, code, `const accountTableRef = "accounts"`)
	assert.Contains(t, code, "type AccountRepo struct {\n\tpool *db.Pool\n}")
	assert.Contains(t, code, "func NewAccountRepo(pool *db.Pool) *AccountRepo {")
	assert.Contains(t, code, "&AccountRepo{pool: pool}")
	assert.Contains(t, code, "// FindAll returns all records.")
	assert.Contains(t, code, "func (ar *AccountRepo) FindAll() ([]Account, error) {")
	assert.Contains(t, code, "func (ar *AccountRepo) Save(newRecord Account) (*Account, error) {")
	assert.Contains(t, code, "func (ar *AccountRepo) FindAllPaged(page int64, perPage int64) (*repogen.Paged[Account], error) {")
	assert.Contains(t, code, `return nil, repogen.NewNotImplementedError("AccountRepo", "find_all")`)
	assert.Contains(t, code, `return nil, repogen.NewNotImplementedError("AccountRepo", "find_all_paged")`)
	assert.Contains(t, code, "_ repogen.FindAll[Account]")
	assert.Contains(t, code, "_ repogen.Save[Account, Account]")
	assert.Contains(t, code, "_ repogen.FindAllPaged[Account]")
	assert.Contains(t, code, "(*AccountRepo)(nil)")
	assert.Equal(t, 3, strings.Count(code, "func (ar *AccountRepo)"))
	for _, absent := range []string{"FindByID", "Delete", "Update", "Count", "Batch", "context"} {
		assert.NotContains(t, code, absent)
	}
}

func TestGenRepo_Suspending(t *testing.T) {
	g := newGenerator(t)
	file, err := g.GenRepo(resolve(t, Suspending,
		"repository(pool = db.Pool, table_ref = accounts)",
		"repo_type(id_type = int64)",
		"crud_repo(find_one, delete, count)",
	))
	require.NoError(t, err)

	code := file.GoString()
	assert.Contains(t, code, "type AccountAsyncRepo struct")
	assert.Contains(t, code, "func NewAccountAsyncRepo(pool *db.Pool) *AccountAsyncRepo {")
	assert.Contains(t, code, "func (aar *AccountAsyncRepo) FindByID(ctx context.Context, id int64) (*Account, error) {")
	assert.Contains(t, code, "func (aar *AccountAsyncRepo) Delete(ctx context.Context, id int64) error {")
	assert.Contains(t, code, "func (aar *AccountAsyncRepo) Count(ctx context.Context, query repogen.Query) (int64, error) {")
	assert.Contains(t, code, "if err := ctx.Err(); err != nil {")
	assert.Contains(t, code, "return 0, err")
	assert.Contains(t, code, `return repogen.NewNotImplementedError("AccountAsyncRepo", "delete")`)
	assert.Contains(t, code, "_ repogen.FindByIDContext[Account, int64]")
	assert.Contains(t, code, "_ repogen.DeleteContext[int64]")
	assert.Contains(t, code, "_ repogen.CountContext ")
}

func TestGenRepo_Batch(t *testing.T) {
	g := newGenerator(t)
	file, err := g.GenRepo(resolve(t, Blocking,
		"repository(pool = db.Pool, table_ref = accounts)",
		"repo_type(id_type = string, new_type = NewAccount)",
		"batch_repo(find, save, update, delete)",
	))
	require.NoError(t, err)

	code := file.GoString()
	assert.Contains(t, code, "FindByIDBatch(ids []string) ([]Account, error)")
	assert.Contains(t, code, "SaveBatch(newRecords []NewAccount) ([]Account, error)")
	assert.Contains(t, code, "UpdateBatch(updateRecords []Account) ([]Account, error)")
	assert.Contains(t, code, "DeleteBatch(ids []string) error")
	assert.Contains(t, code, "_ repogen.SaveBatch[Account, NewAccount]")
}

func TestGenRepo_OtherPackage(t *testing.T) {
	g := newGenerator(t, WithPackage("github.com/acme/app/store"))
	file, err := g.GenRepo(resolve(t, Blocking, accountDirectives...))
	require.NoError(t, err)

	code := file.GoString()
	assert.Contains(t, code, "package store")
	assert.Contains(t, code, `"github.com/acme/app/model"`)
	assert.Contains(t, code, "FindAll() ([]model.Account, error)")
	assert.Contains(t, code, "_ repogen.FindAll[model.Account]")
}

func TestGenRepo_NoCapabilities(t *testing.T) {
	g := newGenerator(t, WithHeader(""))
	file, err := g.GenRepo(resolve(t, Blocking, "repository(pool = db.Pool, table_ref = accounts)"))
	require.NoError(t, err)

	code := file.GoString()
	assert.NotContains(t, code, "Code generated")
	assert.Contains(t, code, "type AccountRepo struct")
	assert.NotContains(t, code, "repogen.")
	assert.NotContains(t, code, "var (")
}

func TestRender_Deterministic(t *testing.T) {
	g := newGenerator(t, WithWorkers(1))
	d := resolve(t, Blocking,
		"repository(pool = db.Pool, table_ref = accounts)",
		"repo_type(id_type = string)",
		"crud_repo(find_one, find_one_query, find_query, find_all, save, update, replace, delete, count)",
		"paging_repo(find_query, find_all)",
		"batch_repo(find, save, update, delete)",
	)
	first, err := g.Render(d)
	require.NoError(t, err)
	for range 5 {
		again, err := g.Render(resolve(t, Blocking,
			"repository(pool = db.Pool, table_ref = accounts)",
			"repo_type(id_type = string)",
			"crud_repo(find_one, find_one_query, find_query, find_all, save, update, replace, delete, count)",
			"paging_repo(find_query, find_all)",
			"batch_repo(find, save, update, delete)",
		))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerate(t *testing.T) {
	g := newGenerator(t)
	target := g.Config().Target
	account := resolve(t, Blocking, accountDirectives...)

	paths, err := g.Generate(context.Background(), account)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(target, "account_repo.go")}, paths)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	want, err := g.Render(account)
	require.NoError(t, err)
	assert.Equal(t, want, content)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestGenerate_FailureIsIsolated(t *testing.T) {
	g := newGenerator(t)
	ok := resolve(t, Blocking, accountDirectives...)
	bad := resolve(t, Blocking, accountDirectives...)
	bad.Entity.Name = "Broken"
	bad.RepoName = "BrokenRepo"
	bad.Capabilities = capability.Set{capability.Crud: {"fetch_everything"}}

	paths, err := g.Generate(context.Background(), ok, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch_everything")
	assert.Equal(t, []string{filepath.Join(g.Config().Target, "account_repo.go")}, paths)
	assert.NoFileExists(t, filepath.Join(g.Config().Target, "broken_repo.go"))

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Broken", ge.Entity)
	assert.Equal(t, "broken_repo.go", ge.File)
	assert.Equal(t, bad.Pos, ge.Position())
	assert.True(t, ge.Pos.IsValid())
}

func TestGenerate_WriteFailureNamesEntity(t *testing.T) {
	g := newGenerator(t)
	d := resolve(t, Blocking, accountDirectives...)
	// A directory in place of the file makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(g.Config().Target, "account_repo.go"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(g.Config().Target, "account_repo.go", "keep"), nil, 0o644))

	_, err := g.Generate(context.Background(), d)
	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "write", ge.Phase)
	assert.Equal(t, "Account", ge.Entity)
	assert.Equal(t, d.Pos, ge.Pos)
}

func TestGenerate_DuplicateFiles(t *testing.T) {
	g := newGenerator(t)
	d := resolve(t, Blocking, accountDirectives...)
	_, err := g.Generate(context.Background(), d, resolve(t, Suspending, accountDirectives...))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "account_repo.go")
}

func TestGenerate_Canceled(t *testing.T) {
	g := newGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, err := g.Generate(ctx, resolve(t, Blocking, accountDirectives...))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}

func TestGenerate_Empty(t *testing.T) {
	g := newGenerator(t)
	paths, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFileName(t *testing.T) {
	d := resolve(t, Blocking, accountDirectives...)
	assert.Equal(t, "account_repo.go", FileName(d))
	d.Entity.Name = "UserInfo"
	assert.Equal(t, "user_info_repo.go", FileName(d))
}
