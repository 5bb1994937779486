package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rzkmi/payoutdesk/internal/middleware"
	"golang.org/x/time/rate"
)

func NewRouter(handler *Handler, secretKey string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.NewLoggingMiddleware())
	r.Use(middleware.NewGzipMiddleware())

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid URL format", http.StatusNotFound)
	})

	limiter := middleware.NewActorRateLimiter(rate.Limit(20), 40)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ActorMiddleware(secretKey))
		r.Use(middleware.RateLimitMiddleware(limiter))

		r.Post("/withdrawals", handler.CreateWithdrawal)

		r.Route("/admin/withdrawals", func(r chi.Router) {
			r.Get("/", handler.ListWithdrawals)
			r.Get("/{id}", handler.GetWithdrawal)
			r.Post("/{id}/approve", handler.ApproveWithdrawal)
			r.Post("/{id}/pay", handler.PayWithdrawal)
			r.Post("/{id}/reject", handler.RejectWithdrawal)
			r.Post("/{id}/proof", handler.AttachProof)
			r.Post("/{id}/release", handler.ForceRelease)
		})
	})

	return r
}
