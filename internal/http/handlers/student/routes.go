package student

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// Router builds the records service routes:
//
//	GET    /health
//	GET    /api/students        → list all students, newest first
//	POST   /api/students        → create a student owned by the caller
//	GET    /api/students/{id}   → get one student by id
//	PUT    /api/students/{id}   → update a student
//	DELETE /api/students/{id}   → delete a student
//
// Everything under /api requires a bearer token accepted by verifier.
func Router(st storage.Storage, verifier auth.Verifier, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	})

	r.Route("/api/students", func(r chi.Router) {
		r.Use(auth.Middleware(verifier))

		r.Get("/", GetList(st))
		r.Post("/", New(st))
		r.Get("/{id}", GetByID(st))
		r.Put("/{id}", Update(st))
		r.Delete("/{id}", Delete(st))
	})

	return r
}

// requestLogger logs one line per request with slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
