package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/mapper"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/logger"
	"taskapp/pkg/tracing"
)

const (
	KeyPrefix = "tasks:"

	keyAll       = KeyPrefix + "all"
	keyActive    = KeyPrefix + "active"
	keyCompleted = KeyPrefix + "completed"
	keyTask      = KeyPrefix + "id:"

	listSpace = "tasks.list"
	itemSpace = "tasks.item"
)

// TaskRepository serves list and id reads from a cache and drops every cached task key after
// a successful write. Specification queries always reach the wrapped repository.
// A failing cache degrades to the wrapped repository.
//
// generation advances on every invalidation. A fill whose load overlapped an invalidation is
// discarded, so a read that raced a write never repopulates the cache with pre-write data.
type TaskRepository struct {
	next       port.TaskRepository
	cache      port.CacheRepository
	ttl        time.Duration
	metrics    *telemetry.AppMetrics
	logger     *logger.Logger
	generation atomic.Uint64
}

type Option func(*TaskRepository)

func WithMetrics(metrics *telemetry.AppMetrics) Option {
	return func(r *TaskRepository) { r.metrics = metrics }
}

func WithLogger(log *logger.Logger) Option {
	return func(r *TaskRepository) { r.logger = log }
}

func NewTaskRepository(next port.TaskRepository, store port.CacheRepository, ttl time.Duration, opts ...Option) *TaskRepository {
	r := &TaskRepository{next: next, cache: store, ttl: ttl, logger: logger.NewNop()}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

var _ port.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	return r.cachedList(ctx, keyAll, r.next.GetAll)
}

func (r *TaskRepository) GetActive(ctx context.Context) ([]domain.Task, error) {
	return r.cachedList(ctx, keyActive, r.next.GetActive)
}

func (r *TaskRepository) GetCompleted(ctx context.Context) ([]domain.Task, error) {
	return r.cachedList(ctx, keyCompleted, r.next.GetCompleted)
}

func (r *TaskRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	key := keyTask + id.String()
	generation := r.generation.Load()

	var record response.TaskRecord
	if r.lookup(ctx, key, itemSpace, &record) {
		if task, err := mapper.FromRecord(record); err == nil {
			return task, true, nil
		}
	}

	task, found, err := r.next.GetByID(ctx, id)
	if err != nil || !found {
		return task, found, err
	}

	r.save(ctx, key, generation, mapper.ToRecord(task))
	return task, true, nil
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.ID, error) {
	id, err := r.next.Create(ctx, task)
	if err != nil {
		return id, err
	}

	r.invalidate(ctx)
	return id, nil
}

func (r *TaskRepository) Update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	if err := r.next.Update(ctx, id, changes); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id domain.ID) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *TaskRepository) FindBySpecification(ctx context.Context, spec domain.Specification) ([]domain.Task, error) {
	return r.next.FindBySpecification(ctx, spec)
}

func (r *TaskRepository) cachedList(ctx context.Context, key string, load func(context.Context) ([]domain.Task, error)) ([]domain.Task, error) {
	generation := r.generation.Load()

	var records []response.TaskRecord
	if r.lookup(ctx, key, listSpace, &records) {
		if tasks, err := fromRecords(records); err == nil {
			return tasks, nil
		}
	}

	tasks, err := load(ctx)
	if err != nil {
		return nil, err
	}

	r.save(ctx, key, generation, mapper.ToRecords(tasks))
	return tasks, nil
}

// lookup decodes the entry at key into dest and reports whether it was a usable hit.
func (r *TaskRepository) lookup(ctx context.Context, key, space string, dest any) bool {
	ctx, span := tracing.CreateChildSpan(ctx, "cache.lookup", []attribute.KeyValue{
		attribute.String("cache.key", key),
	})
	defer span.End()

	data, err := r.cache.Get(ctx, key)
	if err == nil {
		err = json.Unmarshal(data, dest)
	}

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			tracing.AddSpanError(span, err)
			r.logger.WarnWithTrace(ctx, "Cache read failed", zap.String("cache_key", key), zap.Error(err))
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
		if r.metrics != nil {
			r.metrics.RecordCacheMiss(ctx, space)
		}
		return false
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	if r.metrics != nil {
		r.metrics.RecordCacheHit(ctx, space)
	}
	return true
}

// save stores value loaded under generation. The entry is skipped or removed again when an
// invalidation ran after the load began.
func (r *TaskRepository) save(ctx context.Context, key string, generation uint64, value any) {
	if r.generation.Load() != generation {
		return
	}

	data, err := json.Marshal(value)
	if err == nil {
		err = r.cache.Set(ctx, key, data, r.ttl)
	}

	if err != nil {
		r.logger.WarnWithTrace(ctx, "Cache write failed", zap.String("cache_key", key), zap.Error(err))
		return
	}

	if r.generation.Load() != generation {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.WarnWithTrace(ctx, "Cache cleanup failed", zap.String("cache_key", key), zap.Error(err))
		}
	}
}

func (r *TaskRepository) invalidate(ctx context.Context) {
	generation := r.generation.Add(1)
	tracing.AddSpanEvent(trace.SpanFromContext(ctx), "cache.invalidated", []attribute.KeyValue{
		attribute.String("cache.prefix", KeyPrefix),
		attribute.Int64("cache.generation", int64(generation)),
	})

	if err := r.cache.DeleteByPrefix(ctx, KeyPrefix); err != nil {
		r.logger.ErrorWithTrace(ctx, "Cache invalidation failed", zap.Error(err))
	}
}

func fromRecords(records []response.TaskRecord) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(records))

	for _, record := range records {
		task, err := mapper.FromRecord(record)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
