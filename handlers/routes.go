package handlers

import (
	"github.com/Iamyashsiwach/sparksync-app/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires every resource onto the app. The /admin/tasks
// group only requires authentication: employees reach it too, with
// visibility scoped down inside the handlers.
func RegisterRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", Register)
	auth.Post("/login", Login)

	attendance := app.Group("/attendance", middleware.RequireAuth)
	attendance.Post("/", AttendanceAction)
	attendance.Get("/", ListAttendance)

	leave := app.Group("/leave", middleware.RequireAuth)
	leave.Post("/", CreateLeave)
	leave.Get("/", ListLeave)
	leave.Get("/:id", GetLeave)
	leave.Patch("/:id", TransitionLeave)
	leave.Delete("/:id", DeleteLeave)

	adminAttendance := app.Group("/admin/attendance", middleware.RequireAuth, middleware.RequireAdmin)
	adminAttendance.Get("/", GetAllAttendance)
	adminAttendance.Post("/", CreateAttendance)
	adminAttendance.Patch("/", UpdateAttendance)

	adminLeave := app.Group("/admin/leave", middleware.RequireAuth, middleware.RequireAdmin)
	adminLeave.Get("/", GetAllLeave)

	tasks := app.Group("/admin/tasks", middleware.RequireAuth)
	tasks.Get("/", ListTasks)
	tasks.Post("/", CreateTask)
	tasks.Get("/:id", GetTask)
	tasks.Patch("/:id", UpdateTask)
	tasks.Delete("/:id", DeleteTask)

	users := app.Group("/admin/users", middleware.RequireAuth, middleware.RequireAdmin)
	users.Get("/", GetAllUsers)
	users.Patch("/", ChangeUserRole)
	users.Get("/:id", GetUser)
	users.Patch("/:id", UpdateUser)
	users.Delete("/:id", DeleteUser)
}
