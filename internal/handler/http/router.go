package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/Basel-Alghamdi/HRMS/internal/handler/http/middleware"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, leaveHandler LeaveHandler, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.SubmitRequest)
				r.Get("/", leaveHandler.ListRequests)
				r.Post("/attachment", leaveHandler.UploadAttachment)

				r.Route("/balances", func(r chi.Router) {
					r.Get("/", leaveHandler.ListBalances)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", leaveHandler.ProvisionBalance)
					})
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Post("/cancel", leaveHandler.CancelRequest)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/decision", leaveHandler.DecideRequest)
					})
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/", attendanceHandler.GetAttendance)
				r.Get("/summary", attendanceHandler.GetSummary)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}
