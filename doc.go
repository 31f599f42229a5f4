// Package repogen holds the runtime support shared by generated repositories.
//
// Code emitted by the repogen compiler imports this package only. It provides the
// paged result wrapper, the per-capability interfaces every generated repository
// satisfies and the errors returned by placeholder method bodies.
//
// A generated blocking repository looks like:
//
//	type AccountRepo struct {
//		pool *db.Pool
//	}
//
//	func NewAccountRepo(pool *db.Pool) *AccountRepo
//	func (r *AccountRepo) FindAll() ([]Account, error)
//	func (r *AccountRepo) FindAllPaged(page, perPage int64) (*repogen.Paged[Account], error)
//
// and satisfies repogen.FindAll[Account] and repogen.FindAllPaged[Account]. The
// suspending profile emits AccountAsyncRepo whose methods take a context.Context
// first and satisfy the *Context interfaces (repogen.FindAllContext[Account]).
//
// Method bodies return a NotImplementedError until a downstream implementation
// replaces them:
//
//	accounts, err := repo.FindAll()
//	if repogen.IsNotImplemented(err) {
//		// fill in the query for this entity
//	}
package repogen
