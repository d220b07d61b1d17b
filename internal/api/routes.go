package api

import (
	"net/http"
	"time"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires handlers and middleware onto the router.
func SetupRoutes(
	router *gin.Engine,
	allowedOrigin string,
	authService service.AuthService,
	workoutService service.WorkoutService,
) {
	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)

	authMiddleware := AuthMiddleware(authService)

	router.Use(CORSMiddleware(allowedOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			identity, err := getIdentityFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "identity not found in context")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": identity.UserID, "email": identity.Email, "role": identity.Role})
		})

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", RoleMiddleware(domain.RoleTrainer), workoutHandler.CreateWorkout)
			workoutGroup.GET("", RoleMiddleware(domain.RoleTrainer), workoutHandler.ListWorkouts)
			workoutGroup.POST("/:id/assign", RoleMiddleware(domain.RoleTrainer), workoutHandler.AssignWorkout)

			// Demo media: upload is trainer-only, download is checked
			// against ownership or assignment inside the service.
			workoutGroup.POST("/:id/demo-upload", RoleMiddleware(domain.RoleTrainer), workoutHandler.RequestDemoUpload)
			workoutGroup.POST("/:id/demo", RoleMiddleware(domain.RoleTrainer), workoutHandler.ConfirmDemo)
			workoutGroup.GET("/:id/demo", workoutHandler.GetDemoDownload)
		}

		protected.GET("/my-workouts", RoleMiddleware(domain.RoleClient), workoutHandler.GetMyWorkouts)
	}
}
