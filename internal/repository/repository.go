package repository

import (
	"context"

	"fitcoach/workout-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	// Create inserts the user. The unique index on email turns
	// concurrent duplicate registrations into ErrDuplicate.
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// ListByTrainer returns one page of the trainer's workouts, newest
	// first. A non-empty search narrows by case-insensitive name match.
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID, search string, offset, limit int64) ([]domain.Workout, error)
	// CountByTrainer counts over the same filter as ListByTrainer,
	// unaffected by pagination.
	CountByTrainer(ctx context.Context, trainerID primitive.ObjectID, search string) (int64, error)
	SetDemoObjectKey(ctx context.Context, workoutID primitive.ObjectID, objectKey string) error
}

// AssignmentRepository defines the interface for interacting with workout assignments.
type AssignmentRepository interface {
	// Create inserts the assignment. The unique (workoutId, clientId)
	// index turns concurrent duplicate assignments into ErrDuplicate.
	Create(ctx context.Context, assignment *domain.WorkoutAssignment) (primitive.ObjectID, error)
	GetByWorkoutAndClient(ctx context.Context, workoutID, clientID primitive.ObjectID) (*domain.WorkoutAssignment, error)
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutAssignment, error)
	// CountByWorkoutIDs aggregates assignment counts per workout.
	// Workouts with no assignments are absent from the result map.
	CountByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}
