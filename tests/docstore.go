package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const serverTimestamp = "__server_timestamp__"

// FakeDocstore is an in-process document store. Paths alternate
// collection/document segments: an odd number of segments addresses a
// collection, an even number a document. String field values equal to the
// server-timestamp sentinel are replaced with the store's write time.
type FakeDocstore struct {
	URL string

	mu   sync.Mutex
	docs map[string]map[string]interface{} // full path -> document
}

func NewFakeDocstore(t *testing.T) *FakeDocstore {
	t.Helper()

	s := &FakeDocstore{docs: make(map[string]map[string]interface{})}

	e := echo.New()
	e.Logger.SetLevel(log.OFF)
	e.HideBanner = true
	e.Any("/collections/*", s.handle)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

// Seed writes a document directly, bypassing HTTP.
func (s *FakeDocstore) Seed(t *testing.T, path string, doc map[string]interface{}) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = doc
}

// Doc returns a stored document, or nil.
func (s *FakeDocstore) Doc(path string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[path]
}

func (s *FakeDocstore) handle(c echo.Context) error {
	path := strings.Trim(c.Param("*"), "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Request().Method {
	case http.MethodGet:
		if name, isCount := strings.CutSuffix(path, ":count"); isCount {
			return c.JSON(http.StatusOK, echo.Map{"count": len(s.children(name))})
		}
		if isDocPath(path) {
			doc, exists := s.docs[path]
			if !exists {
				return c.JSON(http.StatusNotFound, echo.Map{"message": "document not found"})
			}
			return c.JSON(http.StatusOK, doc)
		}
		return c.JSON(http.StatusOK, s.list(path, c))

	case http.MethodPut:
		doc, err := bindDoc(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid document"})
		}
		s.docs[path] = doc
		return c.JSON(http.StatusOK, echo.Map{})

	case http.MethodPatch:
		doc, err := bindDoc(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid document"})
		}
		stored, exists := s.docs[path]
		if !exists {
			stored = make(map[string]interface{})
			s.docs[path] = stored
		}
		for k, v := range doc {
			stored[k] = v
		}
		return c.JSON(http.StatusOK, echo.Map{})

	case http.MethodDelete:
		delete(s.docs, path)
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusMethodNotAllowed, echo.Map{"message": "unsupported method"})
}

func bindDoc(c echo.Context) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.NewDecoder(c.Request().Body).Decode(&doc); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range doc {
		if v == serverTimestamp {
			doc[k] = now
		}
	}
	return doc, nil
}

func isDocPath(path string) bool {
	return len(strings.Split(path, "/"))%2 == 0
}

// children returns the paths of the documents directly under collection.
func (s *FakeDocstore) children(collection string) []string {
	prefix := collection + "/"
	var paths []string
	for path := range s.docs {
		if rest, ok := strings.CutPrefix(path, prefix); ok && !strings.Contains(rest, "/") {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (s *FakeDocstore) list(collection string, c echo.Context) []map[string]interface{} {
	paths := s.children(collection)
	docs := make([]map[string]interface{}, 0, len(paths))
	for _, path := range paths {
		docs = append(docs, s.docs[path])
	}

	if orderBy := c.QueryParam("orderBy"); orderBy != "" {
		desc := c.QueryParam("desc") == "true"
		sort.SliceStable(docs, func(i, j int) bool {
			a, _ := docs[i][orderBy].(string)
			b, _ := docs[j][orderBy].(string)
			if desc {
				return a > b
			}
			return a < b
		})
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}
