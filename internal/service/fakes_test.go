package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the mongo implementations'
// contracts: generated IDs, timestamps, sentinel errors, uniqueness.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := u
	return &found, nil
}

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.Workout
	seq      int
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	workout.ID = primitive.NewObjectID()
	// Distinct, increasing timestamps keep newest-first ordering deterministic.
	workout.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	workout.UpdatedAt = workout.CreatedAt
	r.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := w
	return &found, nil
}

func (r *fakeWorkoutRepo) matching(trainerID primitive.ObjectID, search string) []domain.Workout {
	var matched []domain.Workout
	for _, w := range r.workouts {
		if w.TrainerID != trainerID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(w.Name), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, w)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (r *fakeWorkoutRepo) ListByTrainer(_ context.Context, trainerID primitive.ObjectID, search string, offset, limit int64) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.matching(trainerID, search)
	if offset >= int64(len(matched)) {
		return []domain.Workout{}, nil
	}
	end := offset + limit
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[offset:end], nil
}

func (r *fakeWorkoutRepo) CountByTrainer(_ context.Context, trainerID primitive.ObjectID, search string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(trainerID, search))), nil
}

func (r *fakeWorkoutRepo) SetDemoObjectKey(_ context.Context, workoutID primitive.ObjectID, objectKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[workoutID]
	if !ok {
		return repository.ErrNotFound
	}
	w.DemoObjectKey = objectKey
	r.workouts[workoutID] = w
	return nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]domain.WorkoutAssignment
	seq         int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[primitive.ObjectID]domain.WorkoutAssignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.WorkoutAssignment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.WorkoutID == assignment.WorkoutID && a.ClientID == assignment.ClientID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	r.seq++
	assignment.ID = primitive.NewObjectID()
	assignment.AssignedDate = time.Unix(int64(r.seq), 0).UTC()
	if assignment.Status == "" {
		assignment.Status = domain.StatusPending
	}
	r.assignments[assignment.ID] = *assignment
	return assignment.ID, nil
}

func (r *fakeAssignmentRepo) GetByWorkoutAndClient(_ context.Context, workoutID, clientID primitive.ObjectID) (*domain.WorkoutAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.WorkoutID == workoutID && a.ClientID == clientID {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssignmentRepo) ListByClient(_ context.Context, clientID primitive.ObjectID) ([]domain.WorkoutAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.WorkoutAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AssignedDate.After(matched[j].AssignedDate)
	})
	return matched, nil
}

func (r *fakeAssignmentRepo) CountByWorkoutIDs(_ context.Context, workoutIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[primitive.ObjectID]int64, len(workoutIDs))
	for _, id := range workoutIDs {
		for _, a := range r.assignments {
			if a.WorkoutID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// fakeStorage returns deterministic URLs instead of talking to S3.
type fakeStorage struct{}

func (fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/download/%s", objectKey), nil
}
