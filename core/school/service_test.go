package school

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeRepo struct {
	Repository // panic on anything a test does not stub

	classes   []Class
	teachers  []Teacher
	listCalls int

	created     []interface{}
	listClasses func(ctx context.Context) ([]Class, error)
}

func (r *fakeRepo) ListClasses(ctx context.Context) ([]Class, error) {
	r.listCalls++
	if r.listClasses != nil {
		return r.listClasses(ctx)
	}
	return r.classes, nil
}

func (r *fakeRepo) ListTeachers(context.Context) ([]Teacher, error) {
	r.listCalls++
	return r.teachers, nil
}

func (r *fakeRepo) CreateClass(_ context.Context, nc NewClass) (Class, error) {
	r.created = append(r.created, nc)
	cls := Class{ID: len(r.classes) + 1, Name: nc.Name}
	r.classes = append(r.classes, cls)
	return cls, nil
}

func (r *fakeRepo) DeleteClass(context.Context, int) error { return nil }

// memCache is a TTL-less stand-in: always fresh until invalidated.
type memCache struct {
	entries     map[string][]byte
	invalidated []string
}

func newMemCache() *memCache { return &memCache{entries: make(map[string][]byte)} }

func (c *memCache) Read(key string, v interface{}) bool {
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (c *memCache) Write(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memCache) Invalidate(key string) error {
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

type memCounters struct{ totals map[string]int }

func (c *memCounters) SetTotal(entity string, n int) error {
	if c.totals == nil {
		c.totals = make(map[string]int)
	}
	c.totals[entity] = n
	return nil
}

func Test_Service_Classes_cache(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{classes: []Class{{ID: 1, Name: "3A"}}}
	cache := newMemCache()
	counters := &memCounters{}
	svc := NewService(repo, cache, counters, nopLogger{})

	// first load fetches and fills the cache + counter
	classes, err := svc.Classes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, classes, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, counters.totals[CacheKeyClasses])

	// fresh entry: no network request
	_, err = svc.Classes(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	// forced refresh always fetches and rewrites the entry
	repo.classes = append(repo.classes, Class{ID: 2, Name: "2B"})
	classes, err = svc.Classes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, classes, 2)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, 2, counters.totals[CacheKeyClasses])
}

func Test_Service_mutationInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	cache := newMemCache()
	svc := NewService(repo, cache, &memCounters{}, nopLogger{})

	_, err := svc.Classes(ctx, false)
	require.NoError(t, err)

	created, err := svc.CreateClass(ctx, NewClass{Name: " 4C "})
	require.NoError(t, err)
	assert.Equal(t, "4C", created.Name) // cleaned before the call
	assert.Contains(t, cache.invalidated, CacheKeyClasses)

	// re-read after invalidation reflects the mutation, no stale copy
	classes, err := svc.Classes(ctx, false)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "4C", classes[0].Name)
}

func Test_Service_CreateClass_validation(t *testing.T) {
	svc := NewService(&fakeRepo{}, newMemCache(), &memCounters{}, nopLogger{})

	_, err := svc.CreateClass(context.Background(), NewClass{Name: "   "})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func Test_Service_listErrorPropagates(t *testing.T) {
	repo := &fakeRepo{listClasses: func(context.Context) ([]Class, error) {
		return nil, errors.New("backend unreachable")
	}}
	svc := NewService(repo, newMemCache(), &memCounters{}, nopLogger{})

	_, err := svc.Classes(context.Background(), false)
	assert.EqualError(t, err, "backend unreachable")
}
