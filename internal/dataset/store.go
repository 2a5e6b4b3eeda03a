package dataset

import (
	"sync"

	"conflictdash/internal"
)

// LoadFunc produces a dataset; Load bound to a path is the production value
type LoadFunc func() (*Dataset, error)

// Store memoizes a dataset for the lifetime of the process. The first Get performs the load;
// every later call returns the same dataset, or the same error.
type Store struct {
	load LoadFunc
	once sync.Once
	ds   *Dataset
	err  error
}

// NewStore creates a store that lazily loads the file at path
func NewStore(path string, logger *internal.Logger) *Store {
	return NewStoreFunc(func() (*Dataset, error) {
		return Load(path, logger)
	})
}

// NewStoreFunc creates a store around an arbitrary loader
func NewStoreFunc(load LoadFunc) *Store {
	return &Store{load: load}
}

// Get returns the memoized dataset, loading it on first use
func (s *Store) Get() (*Dataset, error) {
	s.once.Do(func() {
		s.ds, s.err = s.load()
	})
	return s.ds, s.err
}
