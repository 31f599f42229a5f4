package buildflags

// User is always loaded.
//
//repogen:repository(pool = Pool, table_ref = users)
//repogen:crud_repo(find_all)
type User struct {
	Name string
}

// Pool is a connection pool handle.
type Pool struct{}
