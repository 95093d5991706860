package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/ports"
)

// MongoTaskRepository implements ports.TaskRepository over a mongo database.
// Tasks carry their own id field; the driver-assigned _id is never exposed.
type MongoTaskRepository struct {
	tasks *mongo.Collection
}

// NewMongoTaskRepository creates a new document task repository
func NewMongoTaskRepository(db *mongo.Database) ports.TaskRepository {
	return &MongoTaskRepository{tasks: db.Collection("tasks")}
}

func (r *MongoTaskRepository) List(ctx context.Context, listID string) ([]*entities.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.tasks.Find(ctx, bson.M{"list_id": listID}, opts)
	if err != nil {
		return nil, entities.NewStoreError("list tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []*entities.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, entities.NewStoreError("decode tasks", err)
	}

	return tasks, nil
}

func (r *MongoTaskRepository) Get(ctx context.Context, id string) (*entities.Task, error) {
	var task entities.Task
	err := r.tasks.FindOne(ctx, bson.M{"id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.NewNotFoundError("task", id)
		}
		return nil, entities.NewStoreError("get task", err)
	}

	return &task, nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	if _, err := r.tasks.InsertOne(ctx, task); err != nil {
		return entities.NewStoreError("create task", err)
	}
	return nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *entities.Task) error {
	result, err := r.tasks.ReplaceOne(ctx, bson.M{"id": task.ID}, task)
	if err != nil {
		return entities.NewStoreError("update task", err)
	}
	if result.MatchedCount == 0 {
		return entities.NewNotFoundError("task", task.ID)
	}

	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.tasks.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return entities.NewStoreError("delete task", err)
	}
	if result.DeletedCount == 0 {
		return entities.NewNotFoundError("task", id)
	}

	return nil
}

func (r *MongoTaskRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Task, error) {
	filter := bson.M{
		"status":     entities.TaskStatusCompleted,
		"updated_at": bson.M{"$lt": cutoff},
	}

	cursor, err := r.tasks.Find(ctx, filter)
	if err != nil {
		return nil, entities.NewStoreError("list completed tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []*entities.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, entities.NewStoreError("decode completed tasks", err)
	}

	return tasks, nil
}

func (r *MongoTaskRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := r.tasks.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}}); err != nil {
		return entities.NewStoreError("delete tasks by ids", err)
	}

	return nil
}

func (r *MongoTaskRepository) CountCompleted(ctx context.Context) (int, error) {
	count, err := r.tasks.CountDocuments(ctx, bson.M{"status": entities.TaskStatusCompleted})
	if err != nil {
		return 0, entities.NewStoreError("count completed tasks", err)
	}

	return int(count), nil
}

// MongoTaskListRepository implements ports.TaskListRepository over a mongo database.
type MongoTaskListRepository struct {
	lists *mongo.Collection
}

// NewMongoTaskListRepository creates a new document task list repository
func NewMongoTaskListRepository(db *mongo.Database) ports.TaskListRepository {
	return &MongoTaskListRepository{lists: db.Collection("tasklists")}
}

func (r *MongoTaskListRepository) List(ctx context.Context) ([]*entities.TaskList, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.lists.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, entities.NewStoreError("list tasklists", err)
	}
	defer cursor.Close(ctx)

	var lists []*entities.TaskList
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, entities.NewStoreError("decode tasklists", err)
	}

	return lists, nil
}

func (r *MongoTaskListRepository) Create(ctx context.Context, list *entities.TaskList) error {
	if _, err := r.lists.InsertOne(ctx, list); err != nil {
		return entities.NewStoreError("create tasklist", err)
	}
	return nil
}

func (r *MongoTaskListRepository) GetByTitle(ctx context.Context, title string) (*entities.TaskList, error) {
	var list entities.TaskList
	err := r.lists.FindOne(ctx, bson.M{"title": title}).Decode(&list)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.NewNotFoundError("tasklist", title)
		}
		return nil, entities.NewStoreError("get tasklist by title", err)
	}

	return &list, nil
}
