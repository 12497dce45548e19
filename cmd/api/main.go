package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/logger"
	"inkwell/internal/middleware"
	"inkwell/internal/pkg/i18n"
	"inkwell/internal/realtime"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/service/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET is empty, access tokens are not secure")
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", logger.Error(err))
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis", logger.Error(err))
	}
	defer redis.Close()

	messages, err := i18n.Load(cfg.Locale)
	if err != nil {
		log.Fatal("Failed to load message catalog", logger.Error(err))
	}

	registry := realtime.NewRegistry(log.With(logger.String("component", "realtime")))
	gateway := realtime.NewGateway(registry, log.With(logger.String("component", "gateway")), cfg.WSSendBuffer, cfg.WSPingInterval)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, registry, messages, cfg, log)
	handlers := handler.NewHandlers(services, gateway)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		registry.Shutdown()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Graceful shutdown failed", logger.Error(err))
		}
	}()

	log.Info("Server starting", logger.String("port", cfg.Port), logger.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", logger.Error(err))
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service, registry *realtime.Registry) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":            "ok",
			"realtime_sessions": registry.ConnectionCount(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/ws", middleware.AuthRequired(authService, true), h.Realtime.RequireUpgrade, h.Realtime.Connect())

	v1 := app.Group("/api/v1")

	blogsPublic := v1.Group("/blogs")
	blogsPublic.Get("/:id", h.Blog.Get)
	blogsPublic.Get("/:id/likes", h.Blog.ListLikes)
	blogsPublic.Get("/:id/comments", h.Comment.List)

	usersPublic := v1.Group("/users")
	usersPublic.Get("/:id/followers", h.User.ListFollowers)
	usersPublic.Get("/:id/following", h.User.ListFollowing)
	usersPublic.Get("/:id/blogs", h.Blog.ListByAuthor)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/interactions/:action/:targetId", h.Interaction.Apply)

	me := protected.Group("/users/me")
	me.Get("/", h.User.Me)
	me.Get("/bookmarks", h.User.ListBookmarks)
	me.Get("/history", h.User.ListHistory)
	me.Put("/notification-preferences", h.User.UpdateNotificationPreferences)

	blogs := protected.Group("/blogs")
	blogs.Post("/", h.Blog.Create)
	blogs.Delete("/:id", h.Blog.Delete)
	blogs.Post("/:id/comments", h.Comment.Create)

	comments := protected.Group("/comments")
	comments.Put("/:id", h.Comment.Update)
	comments.Delete("/:id", h.Comment.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Get("/:id", h.Notification.Get)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Patch("/:id/unread", h.Notification.MarkAsUnread)
	notifications.Delete("/:id", h.Notification.Delete)
}
