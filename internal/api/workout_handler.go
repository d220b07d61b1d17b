package api

import (
	"fmt"
	"log"
	"net/http"

	"fitcoach/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request Structs ---

type CreateWorkoutRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type ListWorkoutsQuery struct {
	Page   int64  `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int64  `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

type AssignWorkoutRequest struct {
	ClientID string `json:"clientId" binding:"required"`
}

type DemoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmDemoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Handler Methods ---

// CreateWorkout handles POST /workouts (trainer only).
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	trainerID, identity, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), trainerID, req.Name, req.Description)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	log.Printf("Workout created: %s by trainer %s", workout.Name, identity.Email)
	respond(c, http.StatusCreated, "Workout created successfully", gin.H{"workout": workout})
}

// ListWorkouts handles GET /workouts (trainer only) with pagination and search.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	var query ListWorkoutsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	trainerID, _, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	page, err := h.workoutService.ListTrainerWorkouts(c.Request.Context(), trainerID, query.Page, query.Limit, query.Search)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Workouts retrieved successfully", page)
}

// AssignWorkout handles POST /workouts/:id/assign (trainer only).
func (h *WorkoutHandler) AssignWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workout ID format")
		return
	}

	var req AssignWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid client ID format")
		return
	}

	trainerID, identity, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	assignment, err := h.workoutService.AssignWorkout(c.Request.Context(), workoutID, clientID, trainerID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	log.Printf("Workout %s assigned to client %s by trainer %s", workoutID.Hex(), clientID.Hex(), identity.Email)
	respond(c, http.StatusCreated, "Workout assigned successfully", gin.H{"assignment": assignment})
}

// GetMyWorkouts handles GET /my-workouts (client only).
func (h *WorkoutHandler) GetMyWorkouts(c *gin.Context) {
	clientID, _, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	assignments, err := h.workoutService.ListClientAssignments(c.Request.Context(), clientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Assigned workouts retrieved successfully", gin.H{"assignments": assignments})
}

// RequestDemoUpload handles POST /workouts/:id/demo-upload (trainer only).
func (h *WorkoutHandler) RequestDemoUpload(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workout ID format")
		return
	}

	var req DemoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	trainerID, _, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	resp, err := h.workoutService.RequestDemoUploadURL(c.Request.Context(), trainerID, workoutID, req.ContentType)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Upload URL generated", resp)
}

// ConfirmDemo handles POST /workouts/:id/demo (trainer only).
func (h *WorkoutHandler) ConfirmDemo(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workout ID format")
		return
	}

	var req ConfirmDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	trainerID, _, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	workout, err := h.workoutService.ConfirmDemoUpload(c.Request.Context(), trainerID, workoutID, req.ObjectKey)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Demo media attached", gin.H{"workout": workout})
}

// GetDemoDownload handles GET /workouts/:id/demo (owner trainer or assigned client).
func (h *WorkoutHandler) GetDemoDownload(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workout ID format")
		return
	}

	actorID, identity, err := actorObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	downloadURL, err := h.workoutService.GetDemoDownloadURL(c.Request.Context(), actorID, identity.Role, workoutID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"downloadUrl": downloadURL})
}
