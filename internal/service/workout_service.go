package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/repository"
	"fitcoach/workout-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound     = domain.NewNotFound("workout not found")
	ErrWorkoutAccessDenied = domain.NewForbidden("you can only assign your own workouts")
	ErrClientNotFound      = domain.NewNotFound("client not found")
	ErrNotAClient          = domain.NewForbidden("can only assign workouts to clients")
	ErrAlreadyAssigned     = domain.NewConflict("workout already assigned to this client")
	ErrDemoNotFound        = domain.NewNotFound("workout has no demo media")
	ErrDemoAccessDenied    = domain.NewForbidden("access denied to this workout's demo media")
	ErrInvalidDemoContent  = domain.NewInvalidInput("demo content type must be video/* or image/*")
)

const (
	defaultPage  = int64(1)
	defaultLimit = int64(10)
	maxLimit     = int64(100)
)

// Pagination describes one page of a filtered listing. Total counts the
// whole filtered set, not just this page.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// WorkoutWithStats is a workout enriched with its assignment count.
type WorkoutWithStats struct {
	domain.Workout
	AssignmentCount int64 `json:"assignmentCount"`
}

// WorkoutPage is the result of a paginated trainer listing.
type WorkoutPage struct {
	Workouts   []WorkoutWithStats `json:"workouts"`
	Pagination Pagination         `json:"pagination"`
}

// WorkoutSummary carries the workout fields exposed on assignments.
type WorkoutSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
}

// UserSummary carries the public identity fields of a referenced user.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Email string             `json:"email"`
}

// AssignmentDetail is a freshly created assignment enriched with the
// workout summary and the client identity.
type AssignmentDetail struct {
	domain.WorkoutAssignment
	Workout WorkoutSummary `json:"workout"`
	Client  UserSummary    `json:"client"`
}

// ClientAssignment is an assignment as seen by the client, enriched
// with the workout and its owning trainer.
type ClientAssignment struct {
	domain.WorkoutAssignment
	Workout WorkoutSummary `json:"workout"`
	Trainer UserSummary    `json:"trainer"`
}

// UploadURLResponse returns a presigned upload URL and the object key
// the caller must report back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type WorkoutService interface {
	CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, name, description string) (*domain.Workout, error)
	ListTrainerWorkouts(ctx context.Context, trainerID primitive.ObjectID, page, limit int64, search string) (*WorkoutPage, error)
	AssignWorkout(ctx context.Context, workoutID, clientID, trainerID primitive.ObjectID) (*AssignmentDetail, error)
	ListClientAssignments(ctx context.Context, clientID primitive.ObjectID) ([]ClientAssignment, error)

	// Demo media
	RequestDemoUploadURL(ctx context.Context, trainerID, workoutID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmDemoUpload(ctx context.Context, trainerID, workoutID primitive.ObjectID, objectKey string) (*domain.Workout, error)
	GetDemoDownloadURL(ctx context.Context, actorID primitive.ObjectID, role domain.Role, workoutID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	userRepo       repository.UserRepository
	workoutRepo    repository.WorkoutRepository
	assignmentRepo repository.AssignmentRepository
	fileStorage    storage.FileStorage
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	assignmentRepo repository.AssignmentRepository,
	fileStorage storage.FileStorage,
) WorkoutService {
	return &workoutService{
		userRepo:       userRepo,
		workoutRepo:    workoutRepo,
		assignmentRepo: assignmentRepo,
		fileStorage:    fileStorage,
	}
}

// CreateWorkout creates a workout owned by the trainer. The trainer ID
// comes from the caller's verified token, never from request input.
func (s *workoutService) CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, name, description string) (*domain.Workout, error) {
	if trainerID == primitive.NilObjectID {
		return nil, domain.NewInvalidInput("trainer ID is required")
	}

	workout := &domain.Workout{
		TrainerID:   trainerID,
		Name:        name,
		Description: description,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// ListTrainerWorkouts returns one page of the trainer's workouts,
// newest first, each with its assignment count. The page and count
// queries are independent reads over the same filter and run
// concurrently.
func (s *workoutService) ListTrainerWorkouts(ctx context.Context, trainerID primitive.ObjectID, page, limit int64, search string) (*WorkoutPage, error) {
	if trainerID == primitive.NilObjectID {
		return nil, domain.NewInvalidInput("trainer ID is required")
	}
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := (page - 1) * limit

	var (
		workouts []domain.Workout
		total    int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		workouts, err = s.workoutRepo.ListByTrainer(gCtx, trainerID, search, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.workoutRepo.CountByTrainer(gCtx, trainerID, search)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	workoutIDs := make([]primitive.ObjectID, len(workouts))
	for i, w := range workouts {
		workoutIDs[i] = w.ID
	}
	counts, err := s.assignmentRepo.CountByWorkoutIDs(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}

	items := make([]WorkoutWithStats, len(workouts))
	for i, w := range workouts {
		items[i] = WorkoutWithStats{Workout: w, AssignmentCount: counts[w.ID]}
	}

	return &WorkoutPage{
		Workouts: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// AssignWorkout assigns a workout to a client. Check order matters:
// existence before ownership/role before duplicates.
func (s *workoutService) AssignWorkout(ctx context.Context, workoutID, clientID, trainerID primitive.ObjectID) (*AssignmentDetail, error) {
	if workoutID == primitive.NilObjectID || clientID == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return nil, domain.NewInvalidInput("workout ID, client ID, and trainer ID are required")
	}

	// 1. Workout must exist.
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	// 2. Trainers may only assign their own workouts.
	if workout.TrainerID != trainerID {
		return nil, ErrWorkoutAccessDenied
	}

	// 3. Client user must exist.
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 4. And actually hold the CLIENT role.
	if !client.IsClient() {
		return nil, ErrNotAClient
	}

	// 5. At most one assignment per (workout, client) pair.
	_, err = s.assignmentRepo.GetByWorkoutAndClient(ctx, workoutID, clientID)
	if err == nil {
		return nil, ErrAlreadyAssigned
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 6. Insert. The unique index backstops the pre-check under
	// concurrent identical requests.
	assignment := &domain.WorkoutAssignment{
		WorkoutID: workoutID,
		ClientID:  clientID,
		Status:    domain.StatusPending,
	}
	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}
	assignment.ID = assignmentID

	return &AssignmentDetail{
		WorkoutAssignment: *assignment,
		Workout: WorkoutSummary{
			ID:          workout.ID,
			Name:        workout.Name,
			Description: workout.Description,
		},
		Client: UserSummary{
			ID:    client.ID,
			Email: client.Email,
		},
	}, nil
}

// ListClientAssignments returns all assignments for a client, newest
// first, each enriched with the workout and its owning trainer.
func (s *workoutService) ListClientAssignments(ctx context.Context, clientID primitive.ObjectID) ([]ClientAssignment, error) {
	if clientID == primitive.NilObjectID {
		return nil, domain.NewInvalidInput("client ID is required")
	}

	assignments, err := s.assignmentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	result := make([]ClientAssignment, 0, len(assignments))
	// Trainers repeat across a client's workouts; fetch each once.
	trainers := make(map[primitive.ObjectID]*domain.User)
	for _, a := range assignments {
		workout, err := s.workoutRepo.GetByID(ctx, a.WorkoutID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Workout removed out-of-band; skip the orphaned assignment.
				continue
			}
			return nil, err
		}

		trainer, ok := trainers[workout.TrainerID]
		if !ok {
			trainer, err = s.userRepo.GetByID(ctx, workout.TrainerID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			trainers[workout.TrainerID] = trainer
		}

		item := ClientAssignment{
			WorkoutAssignment: a,
			Workout: WorkoutSummary{
				ID:          workout.ID,
				Name:        workout.Name,
				Description: workout.Description,
			},
		}
		if trainer != nil {
			item.Trainer = UserSummary{ID: trainer.ID, Email: trainer.Email}
		}
		result = append(result, item)
	}
	return result, nil
}

// === Demo media ===

// RequestDemoUploadURL generates a presigned URL the owning trainer can
// PUT demo media to.
func (s *workoutService) RequestDemoUploadURL(ctx context.Context, trainerID, workoutID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	workout, err := s.ownedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(contentType)
	if !strings.HasPrefix(lower, "video/") && !strings.HasPrefix(lower, "image/") {
		return nil, ErrInvalidDemoContent
	}

	ext := ""
	if parts := strings.Split(lower, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	objectKey := path.Join("demos", trainerID.Hex(), workout.ID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, domain.WrapInternal(err)
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmDemoUpload records the uploaded object key on the workout.
func (s *workoutService) ConfirmDemoUpload(ctx context.Context, trainerID, workoutID primitive.ObjectID, objectKey string) (*domain.Workout, error) {
	workout, err := s.ownedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}
	if objectKey == "" {
		return nil, domain.NewInvalidInput("object key is required")
	}

	if err := s.workoutRepo.SetDemoObjectKey(ctx, workout.ID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	workout.DemoObjectKey = objectKey
	return workout, nil
}

// GetDemoDownloadURL generates a temporary download URL for the demo
// media. The owning trainer always may; a client only when the workout
// is assigned to them.
func (s *workoutService) GetDemoDownloadURL(ctx context.Context, actorID primitive.ObjectID, role domain.Role, workoutID primitive.ObjectID) (string, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrWorkoutNotFound
		}
		return "", err
	}

	switch role {
	case domain.RoleTrainer:
		if workout.TrainerID != actorID {
			return "", ErrDemoAccessDenied
		}
	case domain.RoleClient:
		_, err := s.assignmentRepo.GetByWorkoutAndClient(ctx, workoutID, actorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrDemoAccessDenied
			}
			return "", err
		}
	default:
		return "", ErrDemoAccessDenied
	}

	if workout.DemoObjectKey == "" {
		return "", ErrDemoNotFound
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, workout.DemoObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", domain.WrapInternal(err)
	}
	return downloadURL, nil
}

// ownedWorkout loads a workout and enforces trainer ownership.
func (s *workoutService) ownedWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.TrainerID != trainerID {
		return nil, ErrDemoAccessDenied
	}
	return workout, nil
}
