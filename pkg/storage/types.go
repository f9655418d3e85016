package storage

// Storage is an interfaces for a generic blobstore.  Get returns a
// nil value and no error for missing keys.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Del([]byte) error
	Keys(prefix []byte) ([][]byte, error)

	Close() error
}
