package valid

import (
	"time"

	"github.com/syssam/repogen/compiler/load/testdata/valid/db"
)

// Account holds a user account.
//
//repogen:repository(pool = db.Pool, table_ref = accounts)
//repogen:repo_type(id_type = string)
//repogen:crud_repo(find_all, save)
//repogen:paging_repo(find_all = true)
type Account struct {
	ID      string
	Sub     string
	Name    string
	Created time.Time
}

// Session is not an entity.
type Session struct {
	Token string
}
