// Package gen resolves repository declarations and generates Go code for them.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Declaration (//repogen: directives or YAML)
//	        ↓
//	   load.Options (per-facet option records)
//	        ↓
//	   Resolve → Descriptor (validated, serializable IR)
//	        ↓
//	   Bindings (one per enabled capability, registry order)
//	        ↓
//	   Generator → <entity>_repo.go
//
// # Key Types
//
//   - Descriptor: the resolved repository of one entity
//   - Binding: one generated method with its bound parameter types
//   - Profile: blocking or suspending method shapes
//   - Config: output directory, package, header, workers and registry
//
// # Generated Code
//
// For an Account entity with crud_repo(find_all, save) the generator emits:
//
//	const accountTableRef = "accounts"
//
//	type AccountRepo struct {
//		pool *db.Pool
//	}
//
//	func NewAccountRepo(pool *db.Pool) *AccountRepo
//	func (ar *AccountRepo) FindAll() ([]Account, error)
//	func (ar *AccountRepo) Save(newRecord Account) (*Account, error)
//
//	var (
//		_ repogen.FindAll[Account]       = (*AccountRepo)(nil)
//		_ repogen.Save[Account, Account] = (*AccountRepo)(nil)
//	)
//
// Method bodies are placeholders returning a *repogen.NotImplementedError.
//
// # Error Handling
//
// Resolve returns a *ConfigError for missing mandatory options; it matches
// ErrMissingConfig with errors.Is. Render and write failures are reported
// as *GenerationError.
package gen
