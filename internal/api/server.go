package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"contactbook/config"
	"contactbook/internal/auth"
	"contactbook/internal/contact"
	"contactbook/internal/user"
)

type Server struct {
	addr   string
	router *mux.Router
}

func NewServer(
	cfg *config.Config,
	authHandler *auth.JSONHandler,
	authMiddleware *auth.Middleware,
	userHandler *user.JSONHandler,
	contactHandler *contact.JSONHandler,
) *Server {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(RateLimitMiddleware(cfg.RateLimitRPS))
	authHandler.Register(authRouter)

	// Logout needs an authenticated caller, unlike the rest of /auth.
	logoutRouter := api.PathPrefix("/auth").Subrouter()
	logoutRouter.Use(authMiddleware.RequireAccessToken)
	logoutRouter.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	userRouter := api.PathPrefix("/users").Subrouter()
	userRouter.Use(authMiddleware.RequireAccessToken)
	userHandler.Register(userRouter)

	contactRouter := api.PathPrefix("/contacts").Subrouter()
	contactRouter.Use(authMiddleware.RequireAccessToken)
	contactHandler.Register(contactRouter)

	return &Server{addr: cfg.ListenAddr, router: r}
}

// Router exposes the assembled handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", s.addr)
	return srv.ListenAndServe()
}
