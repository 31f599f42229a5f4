//go:build !hidegroups

package buildflags

// Group is hidden by the hidegroups build tag.
//
//repogen:repository(pool = Pool, table_ref = groups)
//repogen:crud_repo(find_all)
type Group struct {
	Name string
}
