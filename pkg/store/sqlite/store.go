package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"
	"tespkg.in/sledkv/pkg/store"
)

const schema = `CREATE TABLE IF NOT EXISTS entries (
	tree  TEXT NOT NULL,
	name  TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (tree, name)
)`

type ss struct {
	db *sql.DB
}

func (s *ss) Set(key store.Key, val string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.Exec("REPLACE INTO entries (tree, name, value) VALUES (?, ?, ?)", key.Tree, key.Name, val)
	return err
}

func (s *ss) Get(key store.Key) (string, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM entries WHERE tree = ? AND name = ?", key.Tree, key.Name).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *ss) GetTreeValues(tree string) (store.KeyVals, error) {
	if tree == "" {
		return nil, store.ErrEmptyKey
	}
	rows, err := s.db.Query("SELECT name, value FROM entries WHERE tree = ? ORDER BY name", tree)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kvals store.KeyVals
	for rows.Next() {
		kval := store.KeyVal{Key: store.Key{Tree: tree}}
		if err := rows.Scan(&kval.Name, &kval.Value); err != nil {
			return nil, err
		}
		kvals = append(kvals, kval)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(kvals) == 0 {
		return nil, store.ErrNotFound
	}
	return kvals, nil
}

func (s *ss) Trees() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT tree FROM entries ORDER BY tree")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trees []string
	for rows.Next() {
		var tree string
		if err := rows.Scan(&tree); err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, rows.Err()
}

func (s *ss) Delete(key store.Key) error {
	res, err := s.db.Exec("DELETE FROM entries WHERE tree = ? AND name = ?", key.Tree, key.Name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ss) Close() error {
	return s.db.Close()
}

// NewStore opens a sqlite database, e.g for dsn: sqlite:///path/to/snapshot.db
func NewStore(dsn string) (store.Store, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if path == "" {
		return nil, errors.New("invalid sqlite dsn, got empty path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, _ = db.Exec(`PRAGMA journal_mode = WAL`)
	_, _ = db.Exec(`PRAGMA busy_timeout = 5000`)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &ss{db: db}, nil
}
