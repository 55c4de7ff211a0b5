package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bissquit/userdesk/api"
	"github.com/bissquit/userdesk/internal/domain"
	"github.com/bissquit/userdesk/internal/identity"
	"github.com/bissquit/userdesk/internal/identity/jwt"
	"github.com/bissquit/userdesk/internal/pkg/httputil"
	"github.com/bissquit/userdesk/internal/users"
	"github.com/bissquit/userdesk/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (a *App) router() (http.Handler, error) {
	authenticator, err := jwt.NewAuthenticator(jwt.Config{
		SecretKey:     a.cfg.JWT.SecretKey,
		TokenDuration: a.cfg.JWT.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}

	userService := users.NewService(a.store)
	if err := a.seedAdmin(userService); err != nil {
		return nil, err
	}
	identityService := identity.NewService(a.store, authenticator)

	userHandler := users.NewHandler(userService)
	identityHandler := identity.NewHandler(identityService)

	r := chi.NewRouter()

	// metrics first so the histogram covers the whole chain
	r.Use(httputil.MetricsMiddleware)
	r.Use(httputil.CORSMiddleware(a.cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLoggerMiddleware(a.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.Text(w, http.StatusOK, "OK")
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{
			"version":    version.Version,
			"commit":     version.GitCommit,
			"build_date": version.BuildDate,
		})
	})
	r.Get("/docs", api.DocsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/openapi.yaml", api.SpecHandler)
		identityHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(identityService))
			identityHandler.RegisterProtectedRoutes(r)
			userHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleAdmin))
				userHandler.RegisterAdminRoutes(r)
			})
		})
	})

	return r, nil
}

func (a *App) seedAdmin(service *users.Service) error {
	b := a.cfg.Bootstrap
	if !b.Enabled {
		return nil
	}

	admin, created, err := service.EnsureUser(context.Background(), domain.NewUser{
		Name:     b.AdminName,
		Email:    b.AdminEmail,
		Type:     domain.RoleAdmin,
		Password: b.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		a.log.Info("bootstrap admin created", "user_id", admin.ID, "email", admin.Email)
	}
	return nil
}
