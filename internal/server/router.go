// Package server wires the domain packages into one HTTP handler.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"techrent/internal/domain/admin"
	"techrent/internal/domain/auth"
	"techrent/internal/domain/booking"
	"techrent/internal/domain/catalog"
	"techrent/internal/domain/employee"
	"techrent/internal/domain/feed"
	"techrent/internal/identity"
	"techrent/internal/middleware"
	"techrent/internal/notification"
	"techrent/internal/pkg/jwt"
	"techrent/internal/pkg/response"
)

type Deps struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Resolver identity.Resolver
	// Tokens issues local tokens. Nil disables register and login.
	Tokens *jwt.Service
	// Roles overrides where roles are stored. Nil uses the local user_roles table.
	Roles       auth.RoleStore
	Notifiers   []booking.Notifier
	Hub         *feed.Hub
	Location    *time.Location
	CORSOrigins []string
}

// Models lists the tables in creation order for auto-migration.
func Models() []any {
	return []any{
		&auth.User{},
		&auth.UserRole{},
		&catalog.Category{},
		&catalog.Equipment{},
		&employee.Employee{},
		&booking.Booking{},
		&booking.StatusEvent{},
	}
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Hub == nil {
		d.Hub = feed.NewHub(d.Log)
	}

	authRepo := auth.NewRepository(d.DB)
	catalogRepo := catalog.NewRepository(d.DB)
	employeeRepo := employee.NewRepository(d.DB)
	bookingRepo := booking.NewRepository(d.DB)

	roles := d.Roles
	if roles == nil {
		roles = authRepo
	}
	authService := auth.NewService(nil, roles, nil)
	if d.Tokens != nil {
		authService = auth.NewService(authRepo, roles, d.Tokens)
	}

	notifiers := append(notification.Fanout{d.Hub}, d.Notifiers...)

	catalogService := catalog.NewService(catalogRepo, bookingRepo)
	employeeService := employee.NewService(employeeRepo)
	bookingService := booking.NewService(bookingRepo, catalogService, notifiers, d.Log, d.Location)
	adminService := admin.NewService(bookingRepo, catalogRepo, employeeService)

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	employeeHandler := employee.NewHandler(employeeService)
	bookingHandler := booking.NewHandler(bookingService)
	adminHandler := admin.NewHandler(adminService)
	feedHandler := feed.NewHandler(d.Hub, d.Resolver, d.CORSOrigins)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Log),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.CORSOrigins),
	)

	r.GET("/healthz", health(d.DB))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		employeeHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		feedHandler.RegisterRoutes(v1)

		optional := v1.Group("", middleware.OptionalAuth(d.Resolver))
		bookingHandler.RegisterCreateRoute(optional)

		protected := v1.Group("", middleware.Authenticate(d.Resolver))
		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterProtectedRoutes(protected)

		adminGroup := v1.Group("/admin", middleware.Authenticate(d.Resolver), middleware.AdminOnly())
		authHandler.RegisterAdminRoutes(adminGroup)
		catalogHandler.RegisterAdminRoutes(adminGroup)
		employeeHandler.RegisterAdminRoutes(adminGroup)
		bookingHandler.RegisterAdminRoutes(adminGroup)
		adminHandler.RegisterRoutes(adminGroup)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "Database unreachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
