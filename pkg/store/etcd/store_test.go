package etcd

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"tespkg.in/sledkv/pkg/store"
)

func getEtcdDsn(t *testing.T) string {
	etcdDsn := os.Getenv("ETCD_DSN")
	if etcdDsn == "" {
		t.Skip("skipping etcd test case, since ETCD_DSN env not found")
	}
	return etcdDsn
}

func TestNewEtcdStore(t *testing.T) {
	dsn := getEtcdDsn(t)
	u, err := url.Parse(dsn)
	require.Nil(t, err)

	s, err := NewStore(dsn)
	require.Nil(t, err)
	ss := s.(*es)
	require.Equal(t, strings.Trim(u.Path, "/"), ss.prefix)
}

func TestNewStoreInvalidDsn(t *testing.T) {
	cases := []string{
		"http://localhost:2379/prefix",
		"etcd://localhost:2379",
		"etcd://localhost:2379/",
	}
	for i, dsn := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := NewStore(dsn)
			require.NotNil(t, err)
		})
	}
}

func newEtcdStore(t *testing.T) *es {
	dsn := getEtcdDsn(t)
	s, err := NewStore(dsn)
	require.Nil(t, err, err)
	return s.(*es)
}

func TestSetGet(t *testing.T) {
	es := newEtcdStore(t)
	key := store.Key{Tree: "test", Name: "foo"}
	value := "bar"

	err := es.Set(key, value)
	require.Nil(t, err)

	val, err := es.Get(key)
	require.Nil(t, err)
	require.Equal(t, value, val)
}

func TestSetOverwrite(t *testing.T) {
	es := newEtcdStore(t)
	key := store.Key{Tree: "test", Name: "foo"}
	vals := []string{"jone", "doe"}
	for _, val := range vals {
		err := es.Set(key, val)
		require.Nil(t, err)
	}

	val, err := es.Get(key)
	require.Nil(t, err)
	require.Equal(t, vals[1], val)
}

func TestTreesAndValues(t *testing.T) {
	es := newEtcdStore(t)
	require.Nil(t, es.Set(store.Key{Tree: "etcd-products", Name: "prod1"}, "Laptop"))
	require.Nil(t, es.Set(store.Key{Tree: "etcd-products", Name: "prod2"}, "Mouse"))

	trees, err := es.Trees()
	require.Nil(t, err)
	require.Contains(t, trees, "etcd-products")

	kvals, err := es.GetTreeValues("etcd-products")
	require.Nil(t, err)
	require.Equal(t, store.KeyVals{
		{Key: store.Key{Tree: "etcd-products", Name: "prod1"}, Value: "Laptop"},
		{Key: store.Key{Tree: "etcd-products", Name: "prod2"}, Value: "Mouse"},
	}, kvals)

	require.Nil(t, es.Delete(store.Key{Tree: "etcd-products", Name: "prod1"}))
	require.Nil(t, es.Delete(store.Key{Tree: "etcd-products", Name: "prod2"}))
	_, err = es.Get(store.Key{Tree: "etcd-products", Name: "prod1"})
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestDecodeVal(t *testing.T) {
	val, err := decodeVal([]byte{0x1})
	require.Nil(t, err)
	require.Equal(t, "", val)

	_, err = decodeVal([]byte{0x2, 'a'})
	require.True(t, errors.Is(err, store.ErrUnsupportedValueType))

	_, err = decodeVal(nil)
	require.NotNil(t, err)
}

func TestKeyMapping(t *testing.T) {
	cases := []struct {
		key store.Key
		raw string
	}{
		{store.Key{Tree: "users", Name: "user1"}, "sled/users/user1"},
		{store.Key{Tree: "users/x", Name: "k"}, "sled/users%2Fx/k"},
		{store.Key{Tree: "users", Name: "x/k"}, "sled/users/x/k"},
	}
	for i, c := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			raw := parseKey("sled", c.key)
			require.Equal(t, c.raw, raw)
			got, err := extractKey("sled", raw)
			require.Nil(t, err)
			require.Equal(t, c.key, got)
		})
	}

	// keys of tree users/x never share the users/ range
	require.False(t, strings.HasPrefix(parseKey("sled", cases[1].key), "sled/users/"))

	_, err := extractKey("sled", "sled/onlytree")
	require.NotNil(t, err)
}

func TestDeleteMissing(t *testing.T) {
	es := newEtcdStore(t)
	err := es.Delete(store.Key{Tree: "etcd-users", Name: "nobody"})
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestTreeWithSlashes(t *testing.T) {
	es := newEtcdStore(t)
	nested := store.Key{Tree: "etcd-team/a", Name: "k"}
	plain := store.Key{Tree: "etcd-team", Name: "k"}
	require.Nil(t, es.Set(nested, "nested"))
	require.Nil(t, es.Set(plain, "plain"))
	defer es.Delete(nested)
	defer es.Delete(plain)

	kvals, err := es.GetTreeValues("etcd-team")
	require.Nil(t, err)
	require.Equal(t, store.KeyVals{{Key: plain, Value: "plain"}}, kvals)

	trees, err := es.Trees()
	require.Nil(t, err)
	require.Contains(t, trees, "etcd-team/a")
	require.Contains(t, trees, "etcd-team")
}
