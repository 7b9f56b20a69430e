// Package apitest provides an in-process fake of the sled store HTTP APIs
// for tests. Values are kept in a memory store, responses mimic the mixed
// encodings of the real server: JSON strings for values and health, plain
// text for deletions.
package apitest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"tespkg.in/sledkv/pkg/store"
	"tespkg.in/sledkv/pkg/store/file"
)

// DefaultTree is where the fake keeps legacy keys, it is hidden from /trees.
const DefaultTree = "__sled__default"

type response struct {
	status int
	body   string
}

// Server is a running fake store.
type Server struct {
	*httptest.Server

	store store.Store

	mu        sync.Mutex
	overrides map[string]response
	requests  int
}

// NewServer starts a fake store, callers must Close it.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		store:     file.NewMemoryStore(),
		overrides: make(map[string]response),
	}

	ge := gin.New()
	ge.UseRawPath = true
	ge.UnescapePathValues = true
	ge.Use(gin.Recovery(), gzip.Gzip(gzip.DefaultCompression), s.intercept)

	ge.POST("/tree/insert", s.treeInsert)
	ge.GET("/tree/get/:tree/:key", s.treeGet)
	ge.DELETE("/tree/delete/:tree/:key", s.treeDelete)
	ge.GET("/tree/list/:tree", s.treeList)
	ge.GET("/trees", s.trees)
	ge.POST("/insert", s.insert)
	ge.GET("/get/:key", s.get)
	ge.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, "OK")
	})

	s.Server = httptest.NewServer(ge)
	return s
}

// Override forces a canned answer for every request matching method and
// the escaped request path.
func (s *Server) Override(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = response{status: status, body: body}
}

// Requests returns how many requests the fake has received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Store exposes the backing store, for seeding or assertions.
func (s *Server) Store() store.Store {
	return s.store
}

func (s *Server) intercept(c *gin.Context) {
	s.mu.Lock()
	s.requests++
	resp, ok := s.overrides[c.Request.Method+" "+c.Request.URL.EscapedPath()]
	s.mu.Unlock()
	if ok {
		c.Data(resp.status, "text/plain; charset=utf-8", []byte(resp.body))
		c.Abort()
		return
	}
	c.Next()
}

type treeOperation struct {
	Tree  string  `json:"tree"`
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

type keyValue struct {
	Key   string  `json:"key"`
	Value string  `json:"value"`
	Tree  *string `json:"tree"`
}

func (s *Server) treeInsert(c *gin.Context) {
	var op treeOperation
	if err := c.BindJSON(&op); err != nil {
		return
	}
	if op.Value == nil {
		c.String(http.StatusBadRequest, "missing value")
		return
	}
	s.set(c, store.Key{Tree: op.Tree, Name: op.Key}, *op.Value)
}

func (s *Server) treeGet(c *gin.Context) {
	s.lookup(c, store.Key{Tree: c.Param("tree"), Name: c.Param("key")})
}

func (s *Server) treeDelete(c *gin.Context) {
	key := store.Key{Tree: c.Param("tree"), Name: c.Param("key")}
	err := s.store.Delete(key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.String(http.StatusOK, "Deleted")
}

func (s *Server) treeList(c *gin.Context) {
	kvals, err := s.store.GetTreeValues(c.Param("tree"))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	keys := make([]string, 0, len(kvals))
	for _, kval := range kvals {
		keys = append(keys, kval.Name)
	}
	c.JSON(http.StatusOK, keys)
}

func (s *Server) trees(c *gin.Context) {
	all, err := s.store.Trees()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	trees := make([]string, 0, len(all))
	for _, tree := range all {
		if tree != DefaultTree {
			trees = append(trees, tree)
		}
	}
	sort.Strings(trees)
	c.JSON(http.StatusOK, trees)
}

func (s *Server) insert(c *gin.Context) {
	var kv keyValue
	if err := c.BindJSON(&kv); err != nil {
		return
	}
	s.set(c, store.Key{Tree: DefaultTree, Name: kv.Key}, kv.Value)
}

func (s *Server) get(c *gin.Context) {
	s.lookup(c, store.Key{Tree: DefaultTree, Name: c.Param("key")})
}

func (s *Server) set(c *gin.Context, key store.Key, val string) {
	if err := s.store.Set(key, val); err != nil {
		if errors.Is(err, store.ErrEmptyKey) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, "Inserted")
}

func (s *Server) lookup(c *gin.Context, key store.Key) {
	val, err := s.store.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, "Key not found")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, val)
}
