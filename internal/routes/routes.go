package routes

import (
	"net/http"

	"github.com/keydrop/keydrop/internal/app"
	"github.com/keydrop/keydrop/internal/handler"
	"github.com/keydrop/keydrop/internal/middleware"
)

// SetupRoutes wires every route to its handler and access gate. Each route
// declares the gate it requires here; nothing is wrapped implicitly.
func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.AppName)
	keys := handler.NewKeyHandler(app.KeyService, app.Cfg.AppName)
	upload := handler.NewUploadHandler(app.UploadService)

	// Gates
	keyGate := middleware.RequireAPIKey(app.KeyService)

	mux := http.NewServeMux()

	// Session establishment
	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", middleware.RequireGuest(auth.Login))
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /register", middleware.RequireGuest(auth.Register))
	mux.HandleFunc("GET /logout", middleware.RequireAuth(auth.Logout))

	// Key management (session gate)
	mux.HandleFunc("GET /{$}", middleware.RequireAuth(keys.IndexPage))
	mux.HandleFunc("POST /generate", middleware.RequireAuth(keys.Generate))
	mux.HandleFunc("GET /keys", middleware.RequireAuth(keys.Keys))
	mux.HandleFunc("POST /deactivate", middleware.RequireAuth(keys.Deactivate))
	mux.HandleFunc("GET /files", middleware.RequireAuth(upload.Files))

	// Machine-facing API (key gate)
	mux.HandleFunc("POST /api/upload", keyGate(upload.Upload))

	// Stored files, only when they live on local disk. S3 storage hands out
	// presigned URLs instead.
	if app.Cfg.StorageDriver == "local" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Cfg.UploadDir)))
		mux.HandleFunc("GET /uploads/", middleware.RequireAuth(files.ServeHTTP))
	}

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection(app.Cfg.IsProduction()),
		middleware.AuthMiddleware(app.AuthService),
	)

	return h
}
