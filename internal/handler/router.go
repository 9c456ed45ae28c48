// Package handler exposes the REST API. Handlers are thin: they decode
// requests, call one service operation, and map the result (or domain
// error) to a response. No business rules live here.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divvyup/divvy/internal/auth"
	"github.com/divvyup/divvy/internal/middleware"
	"github.com/divvyup/divvy/internal/service"
)

// Handler holds the services the API dispatches to.
type Handler struct {
	users    *service.UserService
	groups   *service.GroupService
	expenses *service.ExpenseService
	tokens   *auth.TokenManager
}

// New creates a Handler over the given services and token authority.
func New(users *service.UserService, groups *service.GroupService, expenses *service.ExpenseService, tokens *auth.TokenManager) *Handler {
	return &Handler{
		users:    users,
		groups:   groups,
		expenses: expenses,
		tokens:   tokens,
	}
}

// Routes builds the full route tree with the middleware chain attached.
func (h *Handler) Routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/signup", h.signup)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.tokens))

		r.Post("/logout", h.logout)

		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.updateProfile)
		r.Patch("/profile", h.updateProfile)
		r.Post("/profile/change-password", h.changePassword)

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.listGroups)
			r.Post("/", h.createGroup)

			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", h.getGroup)
				r.Delete("/", h.deleteGroup)
				r.Get("/members", h.listMembers)
				r.Post("/members", h.addMember)
				r.Get("/expenses", h.listExpenses)
				r.Post("/expenses", h.createExpense)
				r.Get("/expenses/balance", h.balanceSummary)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
