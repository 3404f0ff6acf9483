package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/places-server/internal/api/http/handler"
	"github.com/dtroode/places-server/internal/api/http/middleware"
	"github.com/dtroode/places-server/internal/api/http/response"
	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
	"github.com/dtroode/places-server/internal/monitoring"
)

// Config holds everything the router wires into handlers.
// /metrics is served only when Gatherer is set.
type Config struct {
	PlaceService   handler.PlaceService
	AuthService    handler.AuthService
	UserService    handler.UserService
	TokenService   middleware.TokenService
	Uploader       handler.ImageUploader
	Images         model.ImageStore
	DB             handler.Pinger
	ContextManager model.ContextManager
	Metrics        *monitoring.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigin  string
	MaxImageBytes  int64
	Logger         *logger.Logger
}

// Router builds the HTTP handler of the places API.
type Router struct {
	cfg Config
}

func New(cfg Config) *Router {
	return &Router{cfg: cfg}
}

// Register returns the configured handler.
func (r *Router) Register() http.Handler {
	cfg := r.cfg
	logging := middleware.NewLogging(cfg.Logger)
	authenticate := middleware.NewAuthenticate(cfg.TokenService, cfg.ContextManager, cfg.Logger)

	places := handler.NewPlace(cfg.PlaceService, cfg.Uploader, cfg.ContextManager, cfg.MaxImageBytes, cfg.Logger)
	users := handler.NewUser(cfg.AuthService, cfg.UserService, cfg.Uploader, cfg.MaxImageBytes, cfg.Logger)
	images := handler.NewImage(cfg.Images, cfg.Logger)

	mux := chi.NewRouter()
	mux.Use(chimid.RequestID)
	mux.Use(chimid.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimid.Recoverer)
	if cfg.Gatherer != nil {
		mux.Use(middleware.NewMetrics(cfg.Metrics).Handle)
	}
	mux.Use(middleware.CORS(cfg.AllowedOrigin))

	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, &apierror.APIError{Kind: apierror.KindNotFound, Message: "could not find this route"}, cfg.Logger)
	})

	mux.Get("/health", handler.NewHealth(cfg.DB).ServeHTTP)
	if cfg.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	mux.Get("/uploads/*", images.Download)

	mux.Route("/api/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Post("/signup", users.Signup)
		r.Post("/login", users.Login)
	})

	mux.Route("/api/places", func(r chi.Router) {
		r.Get("/{pid}", places.GetPlaceByID)
		r.Get("/user/{uid}", places.GetPlacesByUserID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate.Handle)
			r.Post("/", places.CreatePlace)
			r.Patch("/{pid}", places.UpdatePlace)
			r.Delete("/{pid}", places.DeletePlace)
		})
	})

	return mux
}
