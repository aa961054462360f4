package domain

// CacheBackend selects where the token cache blob is persisted.
type CacheBackend string

const (
	// CacheBackendFile stores the blob in a single file.
	CacheBackendFile CacheBackend = "file"
	// CacheBackendSQLite stores the blob in a SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"
)
