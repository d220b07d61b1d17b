package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment into the database.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.WorkoutAssignment) (primitive.ObjectID, error) {
	if assignment.WorkoutID == primitive.NilObjectID || assignment.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires workoutId and clientId")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.AssignedDate = time.Now().UTC()
	if assignment.Status == "" {
		assignment.Status = domain.StatusPending
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		// The unique (workoutId, clientId) index closes the
		// check-then-insert race between concurrent identical requests.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}

	return insertedID, nil
}

// GetByWorkoutAndClient retrieves the assignment for a (workout, client) pair.
func (r *mongoAssignmentRepository) GetByWorkoutAndClient(ctx context.Context, workoutID, clientID primitive.ObjectID) (*domain.WorkoutAssignment, error) {
	var assignment domain.WorkoutAssignment
	filter := bson.M{"workoutId": workoutID, "clientId": clientID}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// ListByClient retrieves all assignments for a client, newest first.
func (r *mongoAssignmentRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutAssignment, error) {
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := []domain.WorkoutAssignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CountByWorkoutIDs aggregates the number of assignments per workout.
func (r *mongoAssignmentRepository) CountByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(workoutIDs))
	if len(workoutIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"workoutId": bson.M{"$in": workoutIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$workoutId", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		WorkoutID primitive.ObjectID `bson:"_id"`
		Count     int64              `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.WorkoutID] = row.Count
	}
	return counts, nil
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One assignment per (workout, client) pair.
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Client listing sorted by assignment date.
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "assignedDate", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Without the unique index the pre-insert lookup is the only
		// duplicate guard; log-worthy but not fatal at startup.
	}
}
