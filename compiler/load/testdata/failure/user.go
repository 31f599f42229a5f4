package failure

// User carries a malformed directive.
//
//repogen:crud_repo(find_all, save
type User struct {
	Name string
}

// Team is declared correctly.
//
//repogen:repository(pool = Pool, table_ref = teams)
//repogen:crud_repo(find_all)
type Team struct {
	Name string
}

// Role has a directive but is not a struct.
//
//repogen:crud_repo(find_all)
type Role string

type Pool struct{}
