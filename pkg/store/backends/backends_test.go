package backends

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"tespkg.in/sledkv/pkg/store"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		dsn         string
		expectedErr bool
	}{
		{dsn: "file://" + filepath.Join(dir, "snapshot.yaml")},
		{dsn: "sqlite://" + filepath.Join(dir, "snapshot.db")},
		{dsn: "redis://localhost:6379/0"},
		{dsn: "http://localhost:8500/sled"},
		{dsn: "ftp://localhost/sled", expectedErr: true},
		{dsn: "etcd://localhost:2379", expectedErr: true},
		{dsn: "::", expectedErr: true},
	}
	for i, c := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			s, err := Open(c.dsn)
			if c.expectedErr {
				require.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			require.Nil(t, s.Close())
		})
	}
}

func TestOpenFileRoundTrip(t *testing.T) {
	dsn := "file://" + filepath.Join(t.TempDir(), "snapshot.yaml")
	s, err := Open(dsn)
	require.Nil(t, err)
	require.Nil(t, s.Set(store.Key{Tree: "users", Name: "user1"}, "John Doe"))
	require.Nil(t, s.Close())

	s, err = Open(dsn)
	require.Nil(t, err)
	val, err := s.Get(store.Key{Tree: "users", Name: "user1"})
	require.Nil(t, err)
	require.Equal(t, "John Doe", val)
}
