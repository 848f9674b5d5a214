package kvstore

import "errors"

var ErrKeyNotFound = errors.New("key not found")

// Store is a key-value blob store addressed by fixed string keys.
// Both the session store and the leave ledger receive one by injection
// so tests can substitute an in-memory implementation.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set writes value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
