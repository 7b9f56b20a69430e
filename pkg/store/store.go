package store

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnsupportedValueType = errors.New("unsupported value type")
	ErrEmptyKey             = errors.New("empty tree or name not allowed")
)

// Key represents the key to identify a value in the store.
type Key struct {
	Tree string `json:"tree"`
	Name string `json:"key"`
}

func (k Key) String() string {
	return k.Tree + "/" + k.Name
}

// KeyVal represents the key & value pair in the store.
type KeyVal struct {
	Key
	Value string `json:"value"`
}

// KeyVals set of KeyVal
type KeyVals []KeyVal

// Store is a local tree shaped key value store, used as the source or the
// destination when trees are copied from or to the remote store.
type Store interface {
	Set(key Key, val string) error
	// Get returns ErrNotFound when the key is missing.
	Get(key Key) (string, error)
	GetTreeValues(tree string) (KeyVals, error)
	Trees() ([]string, error)
	// Delete returns ErrNotFound when the key is missing.
	Delete(key Key) error
	Close() error
}

// ValidateKey checks that both tree and name are given.
func ValidateKey(key Key) error {
	if key.Tree == "" || key.Name == "" {
		return ErrEmptyKey
	}
	return nil
}
