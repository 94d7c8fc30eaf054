package cache_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"taskapp/internal/adapter/cache"
	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/test/factory"
)

// countingRepository counts the reads that reach storage.
type countingRepository struct {
	*memory.TaskRepository
	lists atomic.Int32
	gets  atomic.Int32
}

func (r *countingRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	r.lists.Add(1)
	return r.TaskRepository.GetAll(ctx)
}

func (r *countingRepository) GetActive(ctx context.Context) ([]domain.Task, error) {
	r.lists.Add(1)
	return r.TaskRepository.GetActive(ctx)
}

func (r *countingRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	r.gets.Add(1)
	return r.TaskRepository.GetByID(ctx, id)
}

// pausingRepository blocks its next read after storage answered, until resume is closed.
type pausingRepository struct {
	*memory.TaskRepository
	armed  atomic.Bool
	loaded chan struct{}
	resume chan struct{}
}

func newPausingRepository() *pausingRepository {
	return &pausingRepository{
		TaskRepository: memory.NewTaskRepository(),
		loaded:         make(chan struct{}),
		resume:         make(chan struct{}),
	}
}

func (r *pausingRepository) pause() {
	if r.armed.CompareAndSwap(true, false) {
		close(r.loaded)
		<-r.resume
	}
}

func (r *pausingRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	tasks, err := r.TaskRepository.GetAll(ctx)
	r.pause()
	return tasks, err
}

func (r *pausingRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	task, found, err := r.TaskRepository.GetByID(ctx, id)
	r.pause()
	return task, found, err
}

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("cache down")

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error { return errBroken }
func (brokenStore) Get(context.Context, string) ([]byte, error)              { return nil, errBroken }
func (brokenStore) Delete(context.Context, string) error                     { return errBroken }
func (brokenStore) DeleteByPrefix(context.Context, string) error             { return errBroken }
func (brokenStore) Close() error                                             { return nil }

type CachedRepositoryTestSuite struct {
	suite.Suite
	Inner    *countingRepository
	Registry *prometheus.Registry
	Repo     *cache.TaskRepository
	ctx      context.Context
}

func (s *CachedRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Inner = &countingRepository{TaskRepository: memory.NewTaskRepository()}
	s.Registry = prometheus.NewRegistry()

	s.Repo = cache.NewTaskRepository(
		s.Inner,
		cache.NewMemoryStore(time.Minute, time.Minute),
		time.Minute,
		cache.WithMetrics(telemetry.NewAppMetrics(s.Registry)),
	)
}

func TestCachedRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CachedRepositoryTestSuite))
}

func (s *CachedRepositoryTestSuite) create(data map[string]any) domain.ID {
	id, err := s.Repo.Create(s.ctx, factory.NewTask(data))
	s.Require().NoError(err)

	return id
}

func (s *CachedRepositoryTestSuite) TestListServedFromCache() {
	s.create(map[string]any{"Title": "First", "DueInDays": 3})

	first, err := s.Repo.GetAll(s.ctx)
	s.Require().NoError(err)
	second, err := s.Repo.GetAll(s.ctx)
	s.Require().NoError(err)

	s.Equal(int32(1), s.Inner.lists.Load())
	s.Require().Len(second, 1)
	s.True(first[0].Equals(second[0]))

	due, ok := second[0].DueDate()
	s.True(ok)
	s.True(due.Equal(factory.ReferenceTime.AddDate(0, 0, 3)))

	expected := `
# HELP cache_hits_total Total number of cache hits
# TYPE cache_hits_total counter
cache_hits_total{key_space="tasks.list"} 1
`
	s.NoError(testutil.GatherAndCompare(s.Registry, strings.NewReader(expected), "cache_hits_total"))
}

func (s *CachedRepositoryTestSuite) TestWritesInvalidate() {
	id := s.create(map[string]any{"Title": "Draft"})

	_, _ = s.Repo.GetActive(s.ctx)
	task, found, _ := s.Repo.GetByID(s.ctx, id)
	s.True(found)
	s.Equal("Draft", task.Title().String())

	completed := true
	s.Require().NoError(s.Repo.Update(s.ctx, id, port.TaskChanges{Completed: &completed}))

	active, err := s.Repo.GetActive(s.ctx)
	s.Require().NoError(err)
	s.Empty(active)
	s.Equal(int32(2), s.Inner.lists.Load())

	task, found, _ = s.Repo.GetByID(s.ctx, id)
	s.True(found)
	s.True(task.Completed())
	s.Equal(int32(2), s.Inner.gets.Load())

	s.Require().NoError(s.Repo.Delete(s.ctx, id))
	_, found, _ = s.Repo.GetByID(s.ctx, id)
	s.False(found)
}

func (s *CachedRepositoryTestSuite) TestAbsentNotCached() {
	id := domain.MustParseID("0123456789abcdef0123456789abcdef")

	_, found, _ := s.Repo.GetByID(s.ctx, id)
	s.False(found)
	_, found, _ = s.Repo.GetByID(s.ctx, id)
	s.False(found)

	s.Equal(int32(2), s.Inner.gets.Load())
}

func (s *CachedRepositoryTestSuite) TestFailedWriteKeepsError() {
	err := s.Repo.Delete(s.ctx, domain.MustParseID("0123456789abcdef0123456789abcdef"))

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *CachedRepositoryTestSuite) TestBrokenCacheFallsThrough() {
	repo := cache.NewTaskRepository(s.Inner, brokenStore{}, time.Minute)

	_, err := repo.Create(s.ctx, factory.NewTask())
	s.Require().NoError(err)

	tasks, err := repo.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(tasks, 1)

	matching, err := repo.FindBySpecification(s.ctx, domain.ActiveSpec{})
	s.Require().NoError(err)
	s.Len(matching, 1)
}

func (s *CachedRepositoryTestSuite) TestReadRacingWriteDoesNotRefillStaleItem() {
	inner := newPausingRepository()
	repo := cache.NewTaskRepository(inner, cache.NewMemoryStore(time.Minute, time.Minute), time.Minute)

	id, err := repo.Create(s.ctx, factory.NewTask(map[string]any{"Title": "Old title"}))
	s.Require().NoError(err)

	inner.armed.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = repo.GetByID(s.ctx, id)
	}()

	<-inner.loaded
	title, err := domain.NewTitle("New title")
	s.Require().NoError(err)
	s.Require().NoError(repo.Update(s.ctx, id, port.TaskChanges{Title: &title}))
	close(inner.resume)
	<-done

	task, found, err := repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.True(found)
	s.Equal("New title", task.Title().String())
}

func (s *CachedRepositoryTestSuite) TestReadRacingWriteDoesNotRefillStaleList() {
	inner := newPausingRepository()
	repo := cache.NewTaskRepository(inner, cache.NewMemoryStore(time.Minute, time.Minute), time.Minute)

	_, err := repo.Create(s.ctx, factory.NewTask(map[string]any{"Title": "First"}))
	s.Require().NoError(err)

	inner.armed.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = repo.GetAll(s.ctx)
	}()

	<-inner.loaded
	_, err = repo.Create(s.ctx, factory.NewTask(map[string]any{"Title": "Second"}))
	s.Require().NoError(err)
	close(inner.resume)
	<-done

	tasks, err := repo.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(tasks, 2)
}
