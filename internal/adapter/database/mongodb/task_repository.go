package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/tracing"
)

const dbSystem = "mongodb"

type taskDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Title     string        `bson:"title"`
	Completed bool          `bson:"completed"`
	Priority  string        `bson:"priority"`
	CreatedAt time.Time     `bson:"created_at"`
	DueDate   *time.Time    `bson:"due_date,omitempty"`
}

func (doc taskDocument) toDomain() (domain.Task, error) {
	id, err := domain.ParseID(doc.ID.Hex())
	if err != nil {
		return domain.Task{}, err
	}

	title, err := domain.NewTitle(doc.Title)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s: %w", doc.ID.Hex(), err)
	}

	priority, err := domain.ParsePriority(doc.Priority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s: %w", doc.ID.Hex(), err)
	}

	var due *time.Time
	if doc.DueDate != nil {
		value := doc.DueDate.UTC()
		due = &value
	}

	return domain.RehydrateTask(id, domain.TaskParams{
		Title:     title,
		Completed: doc.Completed,
		CreatedAt: doc.CreatedAt.UTC(),
		Priority:  priority,
		DueDate:   due,
	})
}

// TaskRepository stores tasks as documents keyed by ObjectID, so its ids use the hex24 format.
type TaskRepository struct {
	collection *mongo.Collection
	telemetry  port.Telemetry
}

func NewTaskRepository(db *DB, telemetry port.Telemetry) *TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{collection: db.Database.Collection(TasksCollection), telemetry: telemetry}
}

var _ port.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) start(ctx context.Context, operation string) (context.Context, *tel.TelemetryOperation) {
	return tel.StartOperation(ctx, r.telemetry, operation, "task",
		attribute.String("db.system", dbSystem),
		attribute.String("db.collection", TasksCollection))
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, "GetAll", bson.D{})
}

func (r *TaskRepository) GetActive(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, "GetActive", bson.D{{Key: "completed", Value: false}})
}

func (r *TaskRepository) GetCompleted(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, "GetCompleted", bson.D{{Key: "completed", Value: true}})
}

func (r *TaskRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	ctx, op := r.start(ctx, "GetByID")

	oid, ok := objectID(id)
	if !ok {
		return domain.Task{}, false, op.End(nil)
	}

	var doc taskDocument
	found := true

	err := tracing.DatabaseSpanWrapper(ctx, dbSystem, TasksCollection, "find_one", func(ctx context.Context) error {
		err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			found = false
			return nil
		}

		return err
	})
	if err != nil {
		return domain.Task{}, false, op.End(HandleMongoError(err, "task", id.String()))
	}

	if !found {
		return domain.Task{}, false, op.End(nil)
	}

	task, err := doc.toDomain()
	if err != nil {
		return domain.Task{}, false, op.End(err)
	}

	return task, true, op.End(nil)
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.ID, error) {
	ctx, op := r.start(ctx, "Create")

	doc := taskDocument{
		ID:        bson.NewObjectID(),
		Title:     task.Title().String(),
		Completed: task.Completed(),
		Priority:  task.Priority().String(),
		CreatedAt: task.CreatedAt().UTC(),
	}

	if due, ok := task.DueDate(); ok {
		value := due.UTC()
		doc.DueDate = &value
	}

	err := tracing.DatabaseSpanWrapper(ctx, dbSystem, TasksCollection, "insert", func(ctx context.Context) error {
		_, err := r.collection.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		return domain.ID{}, op.End(HandleMongoError(err, "task", doc.ID.Hex()))
	}

	id, err := domain.ParseID(doc.ID.Hex())

	return id, op.End(err)
}

func (r *TaskRepository) Update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	ctx, op := r.start(ctx, "Update")

	return op.End(r.update(ctx, id, changes))
}

func (r *TaskRepository) update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound("task", id.String())
	}

	set := bson.D{}

	if changes.Title != nil {
		set = append(set, bson.E{Key: "title", Value: changes.Title.String()})
	}

	if changes.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *changes.Completed})
	}

	if changes.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: changes.Priority.String()})
	}

	if !changes.ClearDueDate && changes.DueDate != nil {
		set = append(set, bson.E{Key: "due_date", Value: changes.DueDate.UTC()})
	}

	update := bson.D{}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}

	if changes.ClearDueDate {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "due_date", Value: ""}}})
	}

	filter := bson.D{{Key: "_id", Value: oid}}

	if len(update) == 0 {
		var count int64

		err := tracing.DatabaseSpanWrapper(ctx, dbSystem, TasksCollection, "count", func(ctx context.Context) (err error) {
			count, err = r.collection.CountDocuments(ctx, filter)
			return err
		})
		if err != nil {
			return HandleMongoError(err, "task", id.String())
		}

		if count == 0 {
			return notFound("task", id.String())
		}

		return nil
	}

	var result *mongo.UpdateResult

	err := tracing.DatabaseSpanWrapper(ctx, dbSystem, TasksCollection, "update", func(ctx context.Context) (err error) {
		result, err = r.collection.UpdateOne(ctx, filter, update)
		return err
	})
	if err != nil {
		return HandleMongoError(err, "task", id.String())
	}

	if result.MatchedCount == 0 {
		return notFound("task", id.String())
	}

	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id domain.ID) error {
	ctx, op := r.start(ctx, "Delete")

	return op.End(r.delete(ctx, id))
}

func (r *TaskRepository) delete(ctx context.Context, id domain.ID) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound("task", id.String())
	}

	var result *mongo.DeleteResult

	err := tracing.DatabaseSpanWrapper(ctx, dbSystem, TasksCollection, "delete", func(ctx context.Context) (err error) {
		result, err = r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		return err
	})
	if err != nil {
		return HandleMongoError(err, "task", id.String())
	}

	if result.DeletedCount == 0 {
		return notFound("task", id.String())
	}

	return nil
}

// FindBySpecification pushes CompletedSpec and ActiveSpec down as a filter and evaluates every
// other specification in memory.
func (r *TaskRepository) FindBySpecification(ctx context.Context, spec domain.Specification) ([]domain.Task, error) {
	filter := bson.D{}

	switch spec.(type) {
	case domain.CompletedSpec:
		filter = bson.D{{Key: "completed", Value: true}}
	case domain.ActiveSpec:
		filter = bson.D{{Key: "completed", Value: false}}
	}

	tasks, err := r.list(ctx, "FindBySpecification", filter)
	if err != nil {
		return nil, err
	}

	return domain.Filter(tasks, spec), nil
}

func (r *TaskRepository) list(ctx context.Context, operation string, filter bson.D) ([]domain.Task, error) {
	ctx, op := r.start(ctx, operation)

	tasks, err := r.find(ctx, filter)

	return tasks, op.End(err)
}

func (r *TaskRepository) find(ctx context.Context, filter bson.D) ([]domain.Task, error) {
	var docs []taskDocument

	err := tracing.DatabaseSpanWrapper(ctx, dbSystem, TasksCollection, "find", func(ctx context.Context) error {
		cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}

		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, HandleMongoError(err, "task", "")
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := doc.toDomain()
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

// objectID converts a hex24 id. Ids of other formats cannot name a stored document.
func objectID(id domain.ID) (bson.ObjectID, bool) {
	if id.Format() != domain.IDFormatHex24 {
		return bson.ObjectID{}, false
	}

	oid, err := bson.ObjectIDFromHex(id.String())
	if err != nil {
		return bson.ObjectID{}, false
	}

	return oid, true
}

func notFound(resource, id string) error {
	return domain.NewNotFoundError(resource, id)
}
