package valid

import (
	"github.com/syssam/repogen/compiler/load/testdata/valid/db"
)

type (
	// Order is a placed order.
	//
	//repogen:repository(pool = db.Pool, table_ref = "orders")
	//repogen:repo_type(id_type = int64, new_type = NewOrder)
	//repogen:crud_repo(find_one = true, delete = true)
	//repogen:batch_repo(find, delete)
	Order struct {
		ID, Total int64
		*Account
	}

	// NewOrder is the payload for creating an order.
	NewOrder struct {
		Total int64
	}
)

var _ = db.Pool{}
