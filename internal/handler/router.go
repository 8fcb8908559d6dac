package handler

import (
	"net/http"

	"pdf-summarizer/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	dashboardHandler *DashboardHandler,
	documentHandler *DocumentHandler,
	requireAuth func(http.Handler) http.Handler,
	logger domain.Logger,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "pdf-summarizer"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/", dashboardHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/register", authHandler.RegisterForm).Methods(http.MethodGet)
	router.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", authHandler.LoginForm).Methods(http.MethodGet)
	router.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Protected routes (require a session)
	protected := router.PathPrefix("").Subrouter()
	protected.Use(requireAuth)
	protected.HandleFunc("/dashboard", dashboardHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/upload_pdf", documentHandler.UploadForm).Methods(http.MethodGet)
	protected.HandleFunc("/upload_pdf", documentHandler.Upload).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
