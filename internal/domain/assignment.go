package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "PENDING"
	StatusInProgress AssignmentStatus = "IN_PROGRESS"
	StatusCompleted  AssignmentStatus = "COMPLETED"
)

// WorkoutAssignment connects one Workout to one Client. At most one
// assignment may exist per (workoutId, clientId) pair; the unique index
// on that pair is the authoritative guard.
type WorkoutAssignment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID    primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	Status       AssignmentStatus   `bson:"status" json:"status"`
	AssignedDate time.Time          `bson:"assignedDate" json:"assignedDate"`
}
