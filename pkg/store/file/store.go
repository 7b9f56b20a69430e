package file

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ghodss/yaml"
	goyaml "gopkg.in/yaml.v2"
	"tespkg.in/sledkv/pkg/store"
)

// ms is a memory store which is optionally persisted to a yaml file on
// Close. The file holds one or more yaml documents, each being a list of
// tree, key & value items.
type ms struct {
	data map[string]map[string]string
	sync.RWMutex
	filepath string
}

func (s *ms) Set(key store.Key, val string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key.Tree]; !ok {
		s.data[key.Tree] = make(map[string]string)
	}
	s.data[key.Tree][key.Name] = val

	return nil
}

func (s *ms) Get(key store.Key) (string, error) {
	s.RLock()
	defer s.RUnlock()

	if v, ok := s.data[key.Tree]; ok {
		if vv, ok := v[key.Name]; ok {
			return vv, nil
		}
	}

	return "", store.ErrNotFound
}

func (s *ms) GetTreeValues(tree string) (store.KeyVals, error) {
	s.RLock()
	defer s.RUnlock()

	treeData, ok := s.data[tree]
	if !ok {
		return nil, store.ErrNotFound
	}
	kvs := make(store.KeyVals, 0, len(treeData))
	for name, val := range treeData {
		kvs = append(kvs, store.KeyVal{
			Key: store.Key{
				Tree: tree,
				Name: name,
			},
			Value: val,
		})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Name < kvs[j].Name })

	return kvs, nil
}

func (s *ms) Trees() ([]string, error) {
	s.RLock()
	defer s.RUnlock()

	trees := make([]string, 0, len(s.data))
	for tree, treeData := range s.data {
		if len(treeData) == 0 {
			continue
		}
		trees = append(trees, tree)
	}
	sort.Strings(trees)
	return trees, nil
}

func (s *ms) Delete(key store.Key) error {
	s.Lock()
	defer s.Unlock()

	treeData, ok := s.data[key.Tree]
	if !ok {
		return store.ErrNotFound
	}
	if _, ok := treeData[key.Name]; !ok {
		return store.ErrNotFound
	}
	delete(treeData, key.Name)
	if len(treeData) == 0 {
		delete(s.data, key.Tree)
	}
	return nil
}

func (s *ms) Close() error {
	if s.filepath == "" {
		return nil
	}
	data, err := s.data2Yaml()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(s.filepath, data, 0666)
}

func (s *ms) data2Yaml() ([]byte, error) {
	trees, _ := s.Trees()
	kvals := store.KeyVals{}
	for _, tree := range trees {
		treeKVals, err := s.GetTreeValues(tree)
		if err != nil {
			return nil, err
		}
		kvals = append(kvals, treeKVals...)
	}
	return yaml.Marshal(kvals)
}

func (s *ms) yaml2Data(filename string) error {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	kvals, err := readKvs(bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	for _, kval := range kvals {
		if err := s.Set(kval.Key, kval.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *ms) init(dsn string) error {
	s.data = make(map[string]map[string]string)
	path, err := getFilePath(dsn)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	} else {
		err = s.yaml2Data(path)
		if err != nil {
			return err
		}
	}
	s.filepath = path
	return nil
}

// NewStore get a new file store, e.g for dsn: file:///path/to/snapshot.yaml
// The file is loaded when it exists and written back on Close.
func NewStore(dsn string) (store.Store, error) {
	s := &ms{}
	if err := s.init(dsn); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore get a store that lives in memory only.
func NewMemoryStore() store.Store {
	return &ms{data: make(map[string]map[string]string)}
}

func getFilePath(dsn string) (string, error) {
	dsn = strings.TrimPrefix(dsn, "file://")
	if idx := strings.Index(dsn, "?"); idx >= 0 {
		dsn = dsn[:idx]
	}
	return filepath.Abs(dsn)
}

func readKvs(r io.Reader) (store.KeyVals, error) {
	dec := goyaml.NewDecoder(r)
	var res [][]byte
	for {
		var value interface{}
		err := dec.Decode(&value)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		valueBytes, err := goyaml.Marshal(value)
		if err != nil {
			return nil, err
		}
		res = append(res, valueBytes)
	}

	kvs := store.KeyVals{}
	for _, out := range res {
		vals := store.KeyVals{}
		if err := yaml.Unmarshal(out, &vals); err != nil {
			return nil, err
		}
		kvs = append(kvs, vals...)
	}
	return kvs, nil
}
