package consul

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/require"
	"tespkg.in/sledkv/pkg/store"
)

func getConsulDsn(t *testing.T) string {
	consulDsn := os.Getenv("CONSUL_DSN")
	if consulDsn == "" {
		t.Skip("skipping consul test case, since CONSUL_DSN env not found")
	}
	return consulDsn
}

func TestNewStore(t *testing.T) {
	dsn := getConsulDsn(t)
	u, err := url.Parse(dsn)
	require.Nil(t, err)

	s, err := NewStore(dsn)
	require.Nil(t, err)
	ss := s.(*cs)
	require.Equal(t, strings.Trim(u.Path, "/"), ss.prefix)
}

func newConsulStore(t *testing.T) *cs {
	dsn := getConsulDsn(t)
	s, err := NewStore(dsn)
	require.Nil(t, err)
	return s.(*cs)
}

func TestSetGet(t *testing.T) {
	cs := newConsulStore(t)
	key := store.Key{Tree: "test", Name: "foo"}
	value := "bar"

	err := cs.Set(key, value)
	require.Nil(t, err)

	val, err := cs.Get(key)
	require.Nil(t, err)
	require.Equal(t, value, val)
}

func TestSetOverwrite(t *testing.T) {
	cs := newConsulStore(t)
	key := store.Key{Tree: "test", Name: "foo"}
	vals := []string{"jone", "doe"}
	for _, val := range vals {
		err := cs.Set(key, val)
		require.Nil(t, err)
	}

	val, err := cs.Get(key)
	require.Nil(t, err)
	require.Equal(t, vals[1], val)
}

func TestTreesAndValues(t *testing.T) {
	cs := newConsulStore(t)
	require.Nil(t, cs.Set(store.Key{Tree: "consul-users", Name: "user1"}, "John Doe"))
	require.Nil(t, cs.Set(store.Key{Tree: "consul-users", Name: "user2"}, "Jane Doe"))

	trees, err := cs.Trees()
	require.Nil(t, err)
	require.Contains(t, trees, "consul-users")

	kvals, err := cs.GetTreeValues("consul-users")
	require.Nil(t, err)
	require.Len(t, kvals, 2)

	require.Nil(t, cs.Delete(store.Key{Tree: "consul-users", Name: "user1"}))
	require.Nil(t, cs.Delete(store.Key{Tree: "consul-users", Name: "user2"}))
	_, err = cs.Get(store.Key{Tree: "consul-users", Name: "user1"})
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestGetUnsupportedType(t *testing.T) {
	p := &api.KVPair{
		Key:   "test",
		Flags: 0x02,
		Value: nil,
	}
	_, err := fromKVPair(p)
	require.NotNil(t, err)
	require.True(t, errors.Is(err, store.ErrUnsupportedValueType))
}

func TestKeyMapping(t *testing.T) {
	key := store.Key{Tree: "users", Name: "a/b"}
	raw := parseKey("sled", key)
	require.Equal(t, "sled/tree-users/a/b", raw)

	got, err := extractKey("sled", raw)
	require.Nil(t, err)
	require.Equal(t, key, got)

	_, err = extractKey("sled", "sled/other/a")
	require.NotNil(t, err)

	require.Equal(t, "tree-users/x", parseKey("", store.Key{Tree: "users", Name: "x"}))
}

func TestKeyMappingTreeWithSlashes(t *testing.T) {
	cases := []store.Key{
		{Tree: "team/a", Name: "k"},
		{Tree: "team", Name: "a/k"},
		{Tree: "50%/off", Name: "x y"},
	}
	seen := make(map[string]store.Key)
	for _, key := range cases {
		raw := parseKey("sled", key)
		other, ok := seen[raw]
		require.False(t, ok, "%v and %v share %v", key, other, raw)
		seen[raw] = key

		got, err := extractKey("sled", raw)
		require.Nil(t, err)
		require.Equal(t, key, got)
	}
	require.Equal(t, "sled/tree-team%2Fa/k", parseKey("sled", cases[0]))

	_, err := extractKey("sled", "sled/tree-bad%zz/k")
	require.NotNil(t, err)
}

func TestDeleteMissing(t *testing.T) {
	cs := newConsulStore(t)
	err := cs.Delete(store.Key{Tree: "consul-users", Name: "nobody"})
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestTreeWithSlashes(t *testing.T) {
	cs := newConsulStore(t)
	key := store.Key{Tree: "consul-team/a", Name: "k"}
	require.Nil(t, cs.Set(key, "v"))
	defer cs.Delete(key)

	trees, err := cs.Trees()
	require.Nil(t, err)
	require.Contains(t, trees, "consul-team/a")
	require.NotContains(t, trees, "consul-team")

	kvals, err := cs.GetTreeValues("consul-team/a")
	require.Nil(t, err)
	require.Equal(t, store.KeyVals{{Key: key, Value: "v"}}, kvals)
}
