package routes

import (
	"net/http"

	"github.com/filevault/filevault/internal/app"
	"github.com/filevault/filevault/internal/handler"
	"github.com/filevault/filevault/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	status := handler.NewAppHandler(app.DB, app.Redis, app.UserRepository, app.FileRepository)
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService)
	file := handler.NewFileHandler(app.FileService)

	mux := http.NewServeMux()

	// Credential endpoints are rate limited per IP
	rateLimiter := middleware.RateLimitCredentials()

	// Service
	mux.HandleFunc("GET /status", status.Status)
	mux.HandleFunc("GET /stats", status.Stats)

	// Sessions
	mux.HandleFunc("GET /connect", rateLimiter(auth.Connect))
	mux.HandleFunc("GET /disconnect", auth.Disconnect)

	// Users
	mux.HandleFunc("POST /users", rateLimiter(user.Create))
	mux.HandleFunc("GET /users/me", middleware.RequireAuth(user.Me))

	// Files
	mux.HandleFunc("POST /files", middleware.RequireAuth(file.Create))
	mux.HandleFunc("GET /files", middleware.RequireAuth(file.Index))
	mux.HandleFunc("GET /files/{id}", middleware.RequireAuth(file.Show))
	mux.HandleFunc("PUT /files/{id}/publish", middleware.RequireAuth(file.Publish))
	mux.HandleFunc("PUT /files/{id}/unpublish", middleware.RequireAuth(file.Unpublish))

	// Content is reachable without a session when the file is public
	mux.HandleFunc("GET /files/{id}/data", file.Data)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.SessionAuth(app.AuthService),
	)
}
