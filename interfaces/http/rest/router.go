package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"snapgram-backend/infrastructure/config"
	"snapgram-backend/interfaces/http/rest/handlers"
	"snapgram-backend/interfaces/http/rest/middleware"
	"snapgram-backend/pkg/auth"
	"snapgram-backend/pkg/common"
)

// Router wires the HTTP surface together.
type Router struct {
	cfg     *config.Config
	pages   *handlers.PageHandler
	actions *handlers.ActionHandler
	session *middleware.SessionGate
	limiter *auth.TokenBucketLimiter
	logger  *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	cfg *config.Config,
	pages *handlers.PageHandler,
	actions *handlers.ActionHandler,
	session *middleware.SessionGate,
	limiter *auth.TokenBucketLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:     cfg,
		pages:   pages,
		actions: actions,
		session: session,
		limiter: limiter,
		logger:  logger,
	}
}

// Setup builds the chi mux with middleware and all routes.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.RateLimit(rt.limiter, rt.logger))

	if rt.cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", rt.health)
	r.Get("/ready", rt.health)

	// Session endpoints establish or clear the cookie, so no gate.
	r.Post("/auth/session", rt.actions.InitSession)
	r.Post("/logout", rt.actions.Logout)

	// Auth pages: public, but an already signed-in visitor is sent home.
	r.Group(func(r chi.Router) {
		r.Use(rt.session.Optional)

		r.Get("/login", rt.pages.Login)
		r.Get("/signup", rt.pages.Signup)
	})

	// Pages that redirect anonymous visitors to the login screen.
	r.Group(func(r chi.Router) {
		r.Use(rt.session.RequirePage)

		r.Get("/", rt.pages.Home)
		r.Get("/profile/{userID}", rt.pages.Profile)
		r.Get("/edit-profile", rt.pages.EditProfile)
		r.Get("/create-post", rt.pages.CreatePostForm)
		r.Get("/followers/{userID}", rt.pages.Followers)
		r.Get("/following/{userID}", rt.pages.Following)
		r.Get("/search", rt.pages.Search)
	})

	// Actions that fail with 401 when the session is missing.
	r.Group(func(r chi.Router) {
		r.Use(rt.session.RequireAction)

		r.Post("/update-profile", rt.actions.UpdateProfile)
		r.Post("/create-post", rt.actions.CreatePost)
		r.Post("/follow/{userID}", rt.actions.Follow)
		r.Post("/unfollow/{userID}", rt.actions.Unfollow)
		r.Post("/add-comment/{postID}", rt.actions.AddComment)
	})

	fileServer := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	return r
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"environment": rt.cfg.Environment,
	})
}
