// Package server assembles the HTTP surface: middleware chain, public routes
// and the bearer-protected API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/internal/handlers"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
)

// Handlers groups the resource handlers mounted by the router.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Profile       *handlers.ProfileHandler
	JobOffers     *handlers.JobOfferHandler
	Formations    *handlers.FormationHandler
	Capsules      *handlers.CapsuleHandler
	Interviews    *handlers.InterviewHandler
	Workshops     *handlers.WorkshopHandler
	Notifications *handlers.NotificationHandler
	Quizzes       *handlers.QuizHandler
}

type Options struct {
	DB             *gorm.DB
	Authn          *auth.Authenticator
	Gate           *policy.AuthGate
	AllowedOrigins []string
	// Files serves locally stored uploads under FilesPrefix; nil when files
	// live in a remote store.
	Files       http.Handler
	FilesPrefix string
	Registry    *prometheus.Registry
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(opts Options, h Handlers) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := newMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withLogging)
	r.Use(withRecover)
	r.Use(m.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httpx.Language)
	r.Use(opts.Authn.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	// Public
	r.Get("/health", handlers.Health(opts.DB))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if opts.Files != nil {
		r.Handle(opts.FilesPrefix+"/*", opts.Files)
	}
	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		mountAPI(r, h, opts.Gate)
	})
	return r
}

// Services authorize every call; admin sections are also gated at the route.
func mountAPI(r chi.Router, h Handlers, g *policy.AuthGate) {
	id := handlers.WithID
	admin := g.RequireAdmin()
	can := g.RequirePermission

	r.Post("/logout", h.Auth.Logout)
	r.Get("/user", h.Auth.Me)

	r.Get("/profile", h.Profile.Get)
	r.Put("/profile", h.Profile.Update)
	r.Delete("/profile", h.Profile.Delete)
	r.Put("/password", h.Profile.ChangePassword)

	r.Route("/users", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.Users.List)
		r.Post("/", h.Users.Create)
		r.Get("/{id}", id(h.Users.Get))
		r.Put("/{id}", id(h.Users.Update))
		r.Delete("/{id}", id(h.Users.Delete))
	})

	r.Route("/capsules", func(r chi.Router) {
		r.Get("/", h.Capsules.List)
		r.With(admin).Get("/admin", h.Capsules.AdminList)
		r.Post("/", h.Capsules.Create)
		r.Put("/{id}", id(h.Capsules.Update))
		r.Delete("/{id}", id(h.Capsules.Delete))
	})

	r.Route("/formations", func(r chi.Router) {
		r.Get("/", h.Formations.List)
		r.With(can(policy.ResFormation, gate.ActionPay)).Post("/payment", h.Formations.Pay)
		r.Get("/{id}", id(h.Formations.Get))
		r.Get("/{id}/access", id(h.Formations.Access))
		r.Post("/{id}/complete", id(h.Formations.Complete))
	})

	r.Route("/job-offers", func(r chi.Router) {
		r.Get("/", h.JobOffers.List)
		r.With(can(policy.ResJobOffer, gate.ActionCreate)).Post("/", h.JobOffers.Create)
		r.Get("/{id}", id(h.JobOffers.Get))
		r.Put("/{id}", id(h.JobOffers.Update))
		r.Delete("/{id}", id(h.JobOffers.Delete))
		r.With(can(policy.ResJobOffer, gate.ActionApply)).Post("/{id}/apply", id(h.JobOffers.Apply))
		r.Get("/{id}/applications", id(h.JobOffers.Applications))
	})
	r.Put("/applications/{id}/status", id(h.JobOffers.UpdateApplicationStatus))
	r.Get("/my-applications", h.JobOffers.MyApplications)

	r.Route("/interviews", func(r chi.Router) {
		r.Get("/", h.Interviews.List)
		r.With(can(policy.ResInterview, gate.ActionCreate)).Post("/", h.Interviews.Create)
		r.Put("/{id}", id(h.Interviews.Update))
		r.Delete("/{id}", id(h.Interviews.Delete))
		r.Post("/{id}/apply", id(h.Interviews.Apply))
		r.Get("/{id}/candidates", id(h.Interviews.Candidates))
		r.Put("/{id}/confirm", id(h.Interviews.Confirm))
	})
	r.With(admin).Get("/all-interviews", h.Interviews.All)

	r.Route("/diffusions-workshops", func(r chi.Router) {
		r.Get("/", h.Workshops.List)
		r.Post("/", h.Workshops.Create)
		r.Get("/{id}", id(h.Workshops.Get))
		r.Put("/{id}", id(h.Workshops.Update))
		r.Delete("/{id}", id(h.Workshops.Delete))
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.Notifications.List)
		r.With(admin).Post("/", h.Notifications.Create)
		r.Put("/read-all", h.Notifications.MarkAllRead)
		r.Put("/{id}/read", id(h.Notifications.MarkRead))
		r.Delete("/{id}", id(h.Notifications.Delete))
	})
	r.Get("/entreprise/notifications", h.Notifications.EntrepriseList)

	r.Route("/tests", func(r chi.Router) {
		r.Get("/", h.Quizzes.List)
		r.With(can(policy.ResTest, gate.ActionSubmit)).Post("/submit", h.Quizzes.Submit)
		r.Get("/results", h.Quizzes.Results)
		r.Get("/{id}/questions", id(h.Quizzes.Questions))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin)
		r.Get("/formations", h.Formations.AdminList)
		r.Post("/formations", h.Formations.Create)
		r.Put("/formations/{id}", id(h.Formations.Update))
		r.Delete("/formations/{id}", id(h.Formations.Delete))

		r.Post("/tests", h.Quizzes.CreateTest)
		r.Put("/tests/{id}", id(h.Quizzes.UpdateTest))
		r.Delete("/tests/{id}", id(h.Quizzes.DeleteTest))
		r.Post("/tests/{id}/questions", id(h.Quizzes.AddQuestion))
		r.Put("/questions/{id}", id(h.Quizzes.UpdateQuestion))
		r.Delete("/questions/{id}", id(h.Quizzes.DeleteQuestion))
	})
}
