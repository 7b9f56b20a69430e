package main

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"tespkg.in/sledkv/pkg/api"
	"tespkg.in/sledkv/pkg/api/apitest"
	"tespkg.in/sledkv/pkg/store"
	"tespkg.in/sledkv/pkg/store/file"
)

func run(t *testing.T, srv *apitest.Server, stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--addr", srv.URL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newServer(t *testing.T) *apitest.Server {
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	return srv
}

func TestTreeCommands(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, srv, "", "put", "users", "user1", "John Doe")
	require.Nil(t, err)
	require.Equal(t, "Inserted\n", out)

	out, err = run(t, srv, "", "get", "users", "user1")
	require.Nil(t, err)
	require.Equal(t, "John Doe\n", out)

	out, err = run(t, srv, "", "keys", "users")
	require.Nil(t, err)
	require.Equal(t, "user1\n", out)

	out, err = run(t, srv, "", "trees")
	require.Nil(t, err)
	require.Equal(t, "users\n", out)

	out, err = run(t, srv, "", "del", "users", "user1")
	require.Nil(t, err)
	require.Equal(t, "Deleted\n", out)

	_, err = run(t, srv, "", "get", "users", "user1")
	require.True(t, errors.Is(err, errNotFound))
}

func TestLegacyCommands(t *testing.T) {
	srv := newServer(t)

	_, err := run(t, srv, "", "legacy", "put", "legacy_key", "legacy_value")
	require.Nil(t, err)

	out, err := run(t, srv, "", "legacy", "get", "legacy_key")
	require.Nil(t, err)
	require.Equal(t, "legacy_value\n", out)

	_, err = run(t, srv, "", "legacy", "get", "missing_key")
	require.True(t, errors.Is(err, errNotFound))
}

func TestHealthCommand(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, srv, "", "health")
	require.Nil(t, err)
	require.Equal(t, "OK\n", out)

	srv.Override("GET", "/health", 503, "down")
	_, err = run(t, srv, "", "health")
	require.NotNil(t, err)
}

func TestRemoteErrorSurfaces(t *testing.T) {
	srv := newServer(t)
	srv.Override("GET", "/trees", 500, "boom")

	_, err := run(t, srv, "", "trees")
	require.Equal(t, 500, api.StatusCode(err))
}

func TestSealedValues(t *testing.T) {
	srv := newServer(t)

	_, err := run(t, srv, "", "put", "--seal", "--password", "pw", "secrets", "db", "s3cr3t")
	require.Nil(t, err)

	raw, err := srv.Store().Get(store.Key{Tree: "secrets", Name: "db"})
	require.Nil(t, err)
	require.NotEqual(t, "s3cr3t", raw)

	out, err := run(t, srv, "", "get", "--open", "--password", "pw", "secrets", "db")
	require.Nil(t, err)
	require.Equal(t, "s3cr3t\n", out)

	_, err = run(t, srv, "", "get", "--open", "--password", "wrong", "secrets", "db")
	require.NotNil(t, err)
}

func TestImportExport(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()

	bs, err := ioutil.ReadFile("../../testdata/snapshot.yaml")
	require.Nil(t, err)
	from := filepath.Join(dir, "in.yaml")
	require.Nil(t, ioutil.WriteFile(from, bs, 0644))

	out, err := run(t, srv, "", "import", "--from", "file://"+from, "--rate", "100", "--burst", "5")
	require.Nil(t, err)
	require.Equal(t, "2 trees, 3 keys, 0 skipped\n", out)

	to := filepath.Join(dir, "out.yaml")
	out, err = run(t, srv, "", "export", "--to", "file://"+to, "--tree", "users")
	require.Nil(t, err)
	require.Equal(t, "1 trees, 2 keys, 0 skipped\n", out)

	s, err := file.NewStore("file://" + to)
	require.Nil(t, err)
	val, err := s.Get(store.Key{Tree: "users", Name: "user2"})
	require.Nil(t, err)
	require.Equal(t, "Jane Doe", val)
	_, err = s.Get(store.Key{Tree: "products", Name: "prod1"})
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestImportRequiresSource(t *testing.T) {
	srv := newServer(t)
	_, err := run(t, srv, "", "import")
	require.NotNil(t, err)
}

func TestRenderCommand(t *testing.T) {
	srv := newServer(t)

	_, err := run(t, srv, "", "put", "users", "user1", "John Doe")
	require.Nil(t, err)

	out, err := run(t, srv, "name: ${tree:// users/user1 }\nmotd: ${kv:// motd | default hi }\n", "render")
	require.Nil(t, err)
	require.Equal(t, "name: John Doe\nmotd: hi\n", out)
}
