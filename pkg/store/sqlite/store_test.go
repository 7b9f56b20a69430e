package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"tespkg.in/sledkv/pkg/store"
)

func newSqliteStore(t *testing.T) store.Store {
	s, err := NewStore("sqlite://" + filepath.Join(t.TempDir(), "snapshot.db"))
	require.Nil(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := newSqliteStore(t)
	key := store.Key{Tree: "users", Name: "user1"}

	require.Nil(t, s.Set(key, "John Doe"))
	val, err := s.Get(key)
	require.Nil(t, err)
	require.Equal(t, "John Doe", val)

	require.Nil(t, s.Set(key, "Jane Doe"))
	val, err = s.Get(key)
	require.Nil(t, err)
	require.Equal(t, "Jane Doe", val)
}

func TestGetNotFound(t *testing.T) {
	s := newSqliteStore(t)
	_, err := s.Get(store.Key{Tree: "users", Name: "nobody"})
	require.True(t, errors.Is(err, store.ErrNotFound))

	_, err = s.GetTreeValues("users")
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestTreesAndValues(t *testing.T) {
	s := newSqliteStore(t)
	require.Nil(t, s.Set(store.Key{Tree: "products", Name: "prod2"}, "Mouse"))
	require.Nil(t, s.Set(store.Key{Tree: "products", Name: "prod1"}, "Laptop"))
	require.Nil(t, s.Set(store.Key{Tree: "users", Name: "user1"}, "John Doe"))

	trees, err := s.Trees()
	require.Nil(t, err)
	require.Equal(t, []string{"products", "users"}, trees)

	kvals, err := s.GetTreeValues("products")
	require.Nil(t, err)
	require.Equal(t, store.KeyVals{
		{Key: store.Key{Tree: "products", Name: "prod1"}, Value: "Laptop"},
		{Key: store.Key{Tree: "products", Name: "prod2"}, Value: "Mouse"},
	}, kvals)

	require.Nil(t, s.Delete(store.Key{Tree: "users", Name: "user1"}))
	trees, err = s.Trees()
	require.Nil(t, err)
	require.Equal(t, []string{"products"}, trees)
}

func TestDeleteMissing(t *testing.T) {
	s := newSqliteStore(t)
	key := store.Key{Tree: "users", Name: "user1"}
	require.True(t, errors.Is(s.Delete(key), store.ErrNotFound))

	require.Nil(t, s.Set(key, "John Doe"))
	require.Nil(t, s.Delete(key))
	require.True(t, errors.Is(s.Delete(key), store.ErrNotFound))
}

func TestSetInvalidKey(t *testing.T) {
	s := newSqliteStore(t)
	require.Equal(t, store.ErrEmptyKey, s.Set(store.Key{Tree: "users"}, "v"))
}

func TestNewStoreEmptyPath(t *testing.T) {
	_, err := NewStore("sqlite://")
	require.NotNil(t, err)
}
