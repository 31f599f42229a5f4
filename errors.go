package repogen

import (
	"errors"
	"fmt"
)

// Sentinel errors of repository methods.
var (
	// ErrNotImplemented is returned by generated methods whose query has not
	// been written yet.
	ErrNotImplemented = errors.New("repogen: not implemented")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("repogen: record not found")

	// ErrNotSingular is returned by FindOneByQuery when the query matched
	// several records.
	ErrNotSingular = errors.New("repogen: record not singular")
)

// NotImplementedError is returned by the placeholder body of a generated
// repository method.
type NotImplementedError struct {
	Repo   string // Repository type, e.g. AccountRepo.
	Method string // Capability method, e.g. find_all.
}

// Error returns the error string.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("repogen: [%s] is not implemented yet for %s", e.Method, e.Repo)
}

// Is reports whether the target error matches NotImplementedError.
// This allows errors.Is(err, ErrNotImplemented) to return true.
func (e *NotImplementedError) Is(err error) bool {
	return err == ErrNotImplemented
}

// NewNotImplementedError returns a new NotImplementedError for the given
// repository type and method.
func NewNotImplementedError(repo, method string) *NotImplementedError {
	return &NotImplementedError{Repo: repo, Method: method}
}

// IsNotImplemented returns true if the error is a NotImplementedError.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// NotFoundError reports that no record has the requested id, as returned
// by FindByID, Update, Replace and Delete implementations.
type NotFoundError struct {
	Repo string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repogen: %s has no record with id %v", e.Repo, e.ID)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// NewNotFoundError returns a NotFoundError for id in repo.
func NewNotFoundError(repo string, id any) *NotFoundError {
	return &NotFoundError{Repo: repo, ID: id}
}

// IsNotFound returns true if err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotSingularError reports that FindOneByQuery matched Count records.
type NotSingularError struct {
	Repo  string
	Count int64
}

func (e *NotSingularError) Error() string {
	return fmt.Sprintf("repogen: %s query matched %d records, expected at most 1", e.Repo, e.Count)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// NewNotSingularError returns a NotSingularError for a query of repo that
// matched count records.
func NewNotSingularError(repo string, count int64) *NotSingularError {
	return &NotSingularError{Repo: repo, Count: count}
}

// IsNotSingular returns true if err is, or wraps, a NotSingularError.
func IsNotSingular(err error) bool {
	return errors.Is(err, ErrNotSingular)
}

// MethodError wraps a storage failure with the repository method that hit
// it. Index is the position of the failing element in a batch method, or
// -1.
type MethodError struct {
	Repo   string
	Method string
	Index  int
	Err    error
}

func (e *MethodError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("repogen: %s.%s[%d]: %v", e.Repo, e.Method, e.Index, e.Err)
	}
	return fmt.Sprintf("repogen: %s.%s: %v", e.Repo, e.Method, e.Err)
}

// Unwrap returns the storage error.
func (e *MethodError) Unwrap() error {
	return e.Err
}

// NewMethodError wraps err as the failure of method on repo.
func NewMethodError(repo, method string, err error) *MethodError {
	return &MethodError{Repo: repo, Method: method, Index: -1, Err: err}
}

// NewBatchError wraps err as the failure of element index of a batch method.
func NewBatchError(repo, method string, index int, err error) *MethodError {
	return &MethodError{Repo: repo, Method: method, Index: index, Err: err}
}
