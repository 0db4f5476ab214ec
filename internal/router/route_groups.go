package router

import (
	"roster_backend/internal/handlers"
	"roster_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetMe)
		}
	}
}

// SetupUserRoutes sets up the employee directory routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	authenticatedGroup.GET("/employees", userHandler.GetEmployees)
	authenticatedGroup.POST("/employees", middleware.RoleAuthMiddleware("admin"), userHandler.CreateEmployee)
}

// SetupShiftTypeRoutes sets up the shift template routes. Reads are open to
// all authenticated users, mutations are admin only.
func SetupShiftTypeRoutes(authenticatedGroup *gin.RouterGroup, shiftTypeHandler *handlers.ShiftTypeHandler) {
	shiftTypeRoutes := authenticatedGroup.Group("/shift-types")
	{
		shiftTypeRoutes.GET("", shiftTypeHandler.GetShiftTypes)
		shiftTypeRoutes.GET("/:id", shiftTypeHandler.GetShiftTypeByID)

		adminRoutes := shiftTypeRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware("admin"))
		{
			adminRoutes.POST("", shiftTypeHandler.CreateShiftType)
			adminRoutes.PATCH("/:id", shiftTypeHandler.UpdateShiftType)
			adminRoutes.DELETE("/:id", shiftTypeHandler.DeleteShiftType)
		}
	}
}

// SetupScheduleRoutes sets up the schedule and schedule shift routes.
func SetupScheduleRoutes(authenticatedGroup *gin.RouterGroup, scheduleHandler *handlers.ScheduleHandler, shiftHandler *handlers.ScheduleShiftHandler) {
	scheduleRoutes := authenticatedGroup.Group("/schedules")
	{
		scheduleRoutes.GET("", scheduleHandler.GetSchedules)
		scheduleRoutes.GET("/:id", scheduleHandler.GetScheduleByID)
		scheduleRoutes.GET("/:id/shifts", shiftHandler.GetShifts)

		adminRoutes := scheduleRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware("admin"))
		{
			adminRoutes.POST("", scheduleHandler.CreateSchedule)
			adminRoutes.DELETE("/:id", scheduleHandler.DeleteSchedule)
			adminRoutes.POST("/:id/publish", scheduleHandler.PublishSchedule)

			adminRoutes.POST("/:id/shifts", shiftHandler.CreateShift)
			adminRoutes.PATCH("/:id/shifts/:shiftId", shiftHandler.UpdateShift)
			adminRoutes.PATCH("/:id/shifts/:shiftId/times", shiftHandler.UpdateShiftTimes)
			adminRoutes.DELETE("/:id/shifts/:shiftId", shiftHandler.DeleteShift)
			adminRoutes.POST("/:id/shifts/copy-previous", shiftHandler.CopyPreviousWeek)
			adminRoutes.POST("/:id/shifts/bulk", shiftHandler.BulkOperations)
		}
	}
}

// SetupTimeClockRoutes sets up the punch in/out routes.
func SetupTimeClockRoutes(authenticatedGroup *gin.RouterGroup, timeClockHandler *handlers.TimeClockHandler) {
	timeClockRoutes := authenticatedGroup.Group("/time-clock")
	{
		timeClockRoutes.POST("/clock-in", timeClockHandler.ClockIn)
		timeClockRoutes.POST("/clock-out", timeClockHandler.ClockOut)
		timeClockRoutes.GET("/status", timeClockHandler.GetStatus)
		timeClockRoutes.GET("/entries", timeClockHandler.GetEntries)
	}
}
