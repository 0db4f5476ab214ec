package router

import (
	"database/sql"

	"roster_backend/internal/handlers"
	"roster_backend/internal/middleware"
	"roster_backend/internal/repositories"
	"roster_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, sqlDB *sql.DB) {
	db := repositories.NewDB(sqlDB)

	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	shiftTypeRepo := repositories.NewShiftTypeRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	shiftRepo := repositories.NewScheduleShiftRepository(db)
	timeClockRepo := repositories.NewTimeClockRepository(db)

	// Initialize Services. The shift service doubles as the activator the
	// schedule service calls on publish.
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, db)
	shiftTypeService := services.NewShiftTypeService(shiftTypeRepo, db)
	shiftService := services.NewScheduleShiftService(shiftRepo, scheduleRepo, shiftTypeRepo, db)
	scheduleService := services.NewScheduleService(scheduleRepo, shiftService, db)
	timeClockService := services.NewTimeClockService(timeClockRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	shiftTypeHandler := handlers.NewShiftTypeHandler(shiftTypeService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	shiftHandler := handlers.NewScheduleShiftHandler(shiftService)
	timeClockHandler := handlers.NewTimeClockHandler(timeClockService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupUserRoutes(authenticated, userHandler)
		SetupShiftTypeRoutes(authenticated, shiftTypeHandler)
		SetupScheduleRoutes(authenticated, scheduleHandler, shiftHandler)
		SetupTimeClockRoutes(authenticated, timeClockHandler)
	}
}
