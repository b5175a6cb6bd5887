package store

import (
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskStore defines the interface for job persistence.
type TaskStore interface {
	Create(ctx context.Context, task *models.TaskRecord) error
	GetByID(ctx context.Context, id string) (*models.TaskRecord, error)
	GetByUserID(ctx context.Context, userID string, page, limit int) ([]*models.TaskRecord, error)
	Update(ctx context.Context, task *models.TaskRecord) error
}

// MongoTaskStore is an implementation of TaskStore using MongoDB.
type MongoTaskStore struct {
	collection *mongo.Collection
}

// NewMongoTaskStore creates a new MongoTaskStore.
func NewMongoTaskStore(db *mongo.Database, collectionName string) *MongoTaskStore {
	return &MongoTaskStore{
		collection: db.Collection(collectionName),
	}
}

// Create inserts a new job record.
func (s *MongoTaskStore) Create(ctx context.Context, task *models.TaskRecord) error {
	_, err := s.collection.InsertOne(ctx, task)
	return err
}

// GetByID returns the job with id, or nil when there is none.
func (s *MongoTaskStore) GetByID(ctx context.Context, id string) (*models.TaskRecord, error) {
	var task models.TaskRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// GetByUserID returns one page of a user's jobs, newest first.
func (s *MongoTaskStore) GetByUserID(ctx context.Context, userID string, page, limit int) ([]*models.TaskRecord, error) {
	tasks := []*models.TaskRecord{}
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	opts.SetSkip(int64((page - 1) * limit))
	opts.SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update writes the mutable fields of a job.
func (s *MongoTaskStore) Update(ctx context.Context, task *models.TaskRecord) error {
	filter := bson.M{"_id": task.ID}
	update := bson.M{
		"$set": bson.M{
			"status":       task.Status,
			"result":       task.Result,
			"error":        task.Error,
			"started_at":   task.StartedAt,
			"completed_at": task.CompletedAt,
		},
	}
	_, err := s.collection.UpdateOne(ctx, filter, update)
	return err
}
