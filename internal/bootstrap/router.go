package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/filmcut/filmcut-backend/internal/api/http"
	"github.com/filmcut/filmcut-backend/internal/api/http/middleware"
	"github.com/filmcut/filmcut-backend/internal/auth"
	"github.com/filmcut/filmcut-backend/internal/projects"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	DB           *pgxpool.Pool
	Redis        *redis.Client
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
	AllowOrigins []string
	MaxBodyBytes int64
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	if dep.MaxBodyBytes > 0 {
		r.MaxMultipartMemory = dep.MaxBodyBytes
		r.Use(middleware.BodyLimit(dep.MaxBodyBytes))
	}

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowOrigins) == 1 && dep.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	cookie := auth.CookieOptions{Name: dep.CookieName, Secure: dep.CookieSecure}

	userRepo := auth.NewRepo(dep.DB)
	sessions := auth.NewSessionStore(dep.Redis, dep.SessionTTL)
	projectRepo := projects.NewRepo(dep.DB)
	summaryCache := projects.NewSummaryCache(dep.Redis, projectRepo, 0)

	api := r.Group("/api")

	authHandler := auth.NewHandler(userRepo, sessions, cookie)
	authHandler.Register(api.Group("/user"))

	projectsGroup := api.Group("/projects")
	projectsGroup.Use(auth.RequireSession(sessions, cookie))
	projects.Register(projectsGroup, projectRepo, summaryCache)

	return r
}
