package db

// Pool is a connection pool handle.
type Pool struct{}
