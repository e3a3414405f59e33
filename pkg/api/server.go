package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/devlink-social/devlink/pkg/auth"
	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/media"
	"github.com/devlink-social/devlink/pkg/middleware"
	"github.com/devlink-social/devlink/pkg/observability"
)

// maxUploadBytes caps request bodies; the only large payloads are the
// multipart image uploads.
const maxUploadBytes = 10 << 20

// ServerOptions bundles the server's dependencies
type ServerOptions struct {
	Store   Storage
	Tokens  *auth.TokenService
	Cookies *auth.CookieWriter
	Media   media.Store
	Logger  *observability.Logger
	Metrics *observability.Metrics

	// Limiter guards the credential endpoints. Nil disables rate limiting.
	Limiter *middleware.DistributedRateLimiter

	// The environment-configured admin principal
	AdminUsername string
	AdminPassword string

	// Origins allowed to call the API with credentials
	AllowedOrigins []string
}

// Server is the REST API server: the route table plus the resource handlers
type Server struct {
	store   Storage
	tokens  *auth.TokenService
	cookies *auth.CookieWriter
	media   media.Store
	logger  *observability.Logger
	metrics *observability.Metrics
	limiter *middleware.DistributedRateLimiter

	adminUsername string
	adminPassword string

	router *mux.Router
}

// NewServer creates the API server and builds its route table
func NewServer(opts ServerOptions) *Server {
	s := &Server{
		store:         opts.Store,
		tokens:        opts.Tokens,
		cookies:       opts.Cookies,
		media:         opts.Media,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		limiter:       opts.Limiter,
		adminUsername: opts.AdminUsername,
		adminPassword: opts.AdminPassword,
	}
	s.setupRoutes(opts.AllowedOrigins)
	return s
}

// Router returns the HTTP handler for the API
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(allowedOrigins []string) {
	r := mux.NewRouter()

	r.Use(httputil.RequestIDMiddleware)
	r.Use(s.loggerMiddleware)
	r.Use(httputil.LoggingMiddleware(s.logger))
	r.Use(httputil.RecoveryMiddleware(s.logger))
	if len(allowedOrigins) > 0 {
		r.Use(httputil.CORSMiddleware(allowedOrigins))
	}
	r.Use(httputil.MaxBytesMiddleware(maxUploadBytes))
	if s.metrics != nil {
		r.Use(s.metricsMiddleware)
	}

	guards := middleware.NewAuthMiddleware(s.tokens, s.lookupUser, s.adminUsername)

	api := r.PathPrefix("/api").Subrouter()

	user := api.PathPrefix("/user").Subrouter()
	user.Handle("/signup", s.limited(http.HandlerFunc(s.handleSignup))).Methods(http.MethodPost)
	user.Handle("/login", s.limited(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	user.HandleFunc("/authenticate", s.handleAuthStatus).Methods(http.MethodGet)
	user.Handle("/get", guards.RequireUser(http.HandlerFunc(s.handleGetOwnUser))).Methods(http.MethodGet)
	user.Handle("/update", guards.RequireUser(http.HandlerFunc(s.handleUpdateUser))).Methods(http.MethodPost)
	user.Handle("/logout", guards.RequireUser(http.HandlerFunc(s.handleLogout))).Methods(http.MethodGet)
	user.HandleFunc("/getById/{id}", s.handleGetUserByID).Methods(http.MethodGet)
	user.HandleFunc("/getallusers", s.handleGetAllProfiles).Methods(http.MethodGet)
	user.HandleFunc("/search", s.handleSearchUsers).Methods(http.MethodGet)
	user.Handle("/delete", guards.RequireAdmin(http.HandlerFunc(s.handleDeleteUser))).Methods(http.MethodPost)

	project := api.PathPrefix("/project").Subrouter()
	project.Handle("/create", guards.RequireUser(http.HandlerFunc(s.handleCreateProject))).Methods(http.MethodPost)
	project.Handle("/get", guards.RequireUser(http.HandlerFunc(s.handleGetOwnProjects))).Methods(http.MethodGet)
	project.Handle("/delete/{id}", guards.RequireUser(http.HandlerFunc(s.handleDeleteProject))).Methods(http.MethodDelete)
	project.HandleFunc("/get-project/{id}", s.handleGetProjectsByUser).Methods(http.MethodGet)
	project.HandleFunc("/getallproject", s.handleGetAllProjects).Methods(http.MethodGet)

	reactions := api.PathPrefix("/likedislike").Subrouter()
	reactions.Handle("/setlike/{id}", guards.RequireUser(http.HandlerFunc(s.handleSetLike))).Methods(http.MethodPost)
	reactions.Handle("/setdislike/{id}", guards.RequireUser(http.HandlerFunc(s.handleSetDislike))).Methods(http.MethodPost)
	reactions.HandleFunc("/getlikes/{id}", s.handleGetLikes).Methods(http.MethodGet)
	reactions.HandleFunc("/getdislikes/{id}", s.handleGetDislikes).Methods(http.MethodGet)

	comment := api.PathPrefix("/comment").Subrouter()
	comment.Handle("/add-comment/{id}", guards.RequireUser(http.HandlerFunc(s.handleAddComment))).Methods(http.MethodPost)
	comment.HandleFunc("/get-comment/{id}", s.handleGetComments).Methods(http.MethodGet)

	community := api.PathPrefix("/community").Subrouter()
	community.Handle("/create", guards.RequireUser(http.HandlerFunc(s.handleCreatePost))).Methods(http.MethodPost)
	community.HandleFunc("/getallposts", s.handleGetAllPosts).Methods(http.MethodGet)
	community.HandleFunc("/getsinglepost/{id}", s.handleGetPost).Methods(http.MethodGet)
	community.Handle("/verifyowner/{id}", guards.RequireUser(http.HandlerFunc(s.handleVerifyPostOwner))).Methods(http.MethodGet)
	community.Handle("/deletepost/{id}", guards.RequireUser(http.HandlerFunc(s.handleDeletePost))).Methods(http.MethodDelete)
	community.Handle("/createcomment/{id}", guards.RequireUser(http.HandlerFunc(s.handleCreatePostComment))).Methods(http.MethodPost)
	community.HandleFunc("/getallcomments/{id}", s.handleGetPostComments).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Handle("/login", s.limited(http.HandlerFunc(s.handleAdminLogin))).Methods(http.MethodPost)
	admin.Handle("/authenticate", guards.RequireAdmin(http.HandlerFunc(s.handleAdminStatus))).Methods(http.MethodGet)
	admin.Handle("/logout", guards.RequireAdmin(http.HandlerFunc(s.handleAdminLogout))).Methods(http.MethodGet)

	s.router = r
}

// limited wraps credential endpoints with the rate limiter when configured
func (s *Server) limited(h http.Handler) http.Handler {
	if s.limiter == nil {
		return h
	}
	return s.limiter.Handler(h)
}

// lookupUser is the auth guard's identity check: a valid token whose subject
// no longer exists must not authenticate.
func (s *Server) lookupUser(ctx context.Context, id string) error {
	_, err := s.store.GetUserByID(ctx, id)
	return err
}

// loggerMiddleware makes the server's logger available to handlers through
// the request context.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithLogger(r.Context(), s.logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// metricsMiddleware records request counts and latency under the route
// template so path parameters do not explode label cardinality.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		s.metrics.InstrumentHandler(path, next).ServeHTTP(w, r)
	})
}

// observe records a storage operation when metrics are enabled
func (s *Server) observe(operation string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveStorageOperation(operation, start, err)
	}
}

// recordLogin counts a login attempt for the given principal kind
func (s *Server) recordLogin(principal string, ok bool) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	s.metrics.LoginsTotal.WithLabelValues(principal, status).Inc()
}

// recordTokenRejected counts a rejected session token
func (s *Server) recordTokenRejected(scheme string) {
	if s.metrics != nil {
		s.metrics.TokenRejectedTotal.WithLabelValues(scheme).Inc()
	}
}

// recordUpload counts a media upload and its size
func (s *Server) recordUpload(folder string, size int64, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	s.metrics.MediaUploadsTotal.WithLabelValues(folder, status).Inc()
	if err == nil {
		s.metrics.MediaUploadBytes.Add(float64(size))
	}
}

// actingUserID returns the identity id resolved by the user auth guard
func actingUserID(r *http.Request) string {
	if claims := middleware.GetUserClaims(r); claims != nil {
		return claims.UserID
	}
	return ""
}
