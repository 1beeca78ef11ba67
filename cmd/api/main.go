package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusstay/internal/attendance"
	"campusstay/internal/auth"
	"campusstay/internal/complaints"
	"campusstay/internal/config"
	"campusstay/internal/events"
	"campusstay/internal/httpmiddleware"
	"campusstay/internal/media"
	"campusstay/internal/mess"
	"campusstay/internal/parcels"
	"campusstay/internal/payments"
	"campusstay/internal/queue"
	"campusstay/internal/rooms"
	"campusstay/internal/store"
	"campusstay/internal/students"
)

// application bundles the services the route handlers need.
type application struct {
	cfg        config.App
	rooms      *rooms.Service
	attendance *attendance.Service
	students   *students.Service
	payments   *payments.Service
	mess       *mess.Service
	parcels    *parcels.Service
	events     *events.Service
	complaints *complaints.Service
	uploader   *media.Uploader
	q          queue.Queue
}

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	var db *store.DB
	if cfg.StoreBackend != "memory" {
		var err error
		db, err = store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Printf("warning: db not reachable: %v", err)
		} else {
			defer db.Close()
			if err := db.EnsureSchema(context.Background()); err != nil {
				log.Printf("warning: schema setup failed: %v", err)
			}
		}
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campusstay:events")
	}

	app := buildApplication(cfg, db, q)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	limiter := httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).
		SkipPaths("/healthz", "/metrics")
	r.Use(limiter.GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil || cfg.StoreBackend == "memory"
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		studentID, err := app.students.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		issueTokens(c, cfg, studentID, auth.RoleStudent)
	})

	r.POST("/v1/warden/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Username != cfg.WardenUser || req.Password != cfg.WardenPassword {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		issueTokens(c, cfg, req.Username, auth.RoleWarden)
	})

	bearer := auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer)
	studentGroup := r.Group("/v1/student", bearer, auth.RequireRole(auth.RoleStudent))
	wardenGroup := r.Group("/v1/warden", bearer, auth.RequireRole(auth.RoleWarden))

	registerStudentRoutes(studentGroup, app)
	registerWardenRoutes(wardenGroup, app)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func issueTokens(c *gin.Context, cfg config.App, subject, role string) {
	tokens, err := auth.Issue(subject, role, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"role":          role,
		"subject":       subject,
	})
}

// respondErr maps domain errors onto HTTP statuses.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound),
		errors.Is(err, rooms.ErrRequestNotFound),
		errors.Is(err, students.ErrNotFound),
		errors.Is(err, parcels.ErrNotFound),
		errors.Is(err, events.ErrNotFound),
		errors.Is(err, complaints.ErrNotFound),
		errors.Is(err, mess.ErrPollNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, rooms.ErrAlreadyBooked),
		errors.Is(err, rooms.ErrRoomFull),
		errors.Is(err, rooms.ErrNoCurrentRoom),
		errors.Is(err, rooms.ErrRequestResolved),
		errors.Is(err, mess.ErrPollClosed),
		errors.Is(err, parcels.ErrAlreadyCollected),
		errors.Is(err, events.ErrRegistrationClosed),
		errors.Is(err, students.ErrRollNumberTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, attendance.ErrInvalidOrExpiredQR),
		errors.Is(err, attendance.ErrQRExpired),
		errors.Is(err, attendance.ErrOutsideGeofence),
		errors.Is(err, mess.ErrInvalidOption),
		errors.Is(err, parcels.ErrInvalidOTP),
		errors.Is(err, complaints.ErrInvalidCategory),
		errors.Is(err, payments.ErrInvalidMethod),
		errors.Is(err, payments.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// publish drops a message onto the queue, logging instead of failing the
// request when the broker is down.
func publish(c *gin.Context, q queue.Queue, msgType string, body any) {
	msg, err := queue.NewMessage(msgType, body)
	if err != nil {
		log.Printf("queue message build failed: %v", err)
		return
	}
	if err := q.Publish(c.Request.Context(), msg); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
