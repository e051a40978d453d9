package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/reelproof/reelproof-api/pkg/config"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/db/queries"
	"github.com/reelproof/reelproof-api/pkg/handlers"
	"github.com/reelproof/reelproof-api/pkg/mailer"
	"github.com/reelproof/reelproof-api/pkg/middleware"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// registerValidators installs the domain enums into gin's binding validator.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		log.Fatal("Unexpected binding validator engine")
	}
	v.RegisterValidation("videostatus", func(fl validator.FieldLevel) bool {
		return services.ValidStatus(fl.Field().String())
	})
	v.RegisterValidation("socialplatform", func(fl validator.FieldLevel) bool {
		return services.ValidPlatform(fl.Field().String())
	})
}

func main() {
	log.SetOutput(gin.DefaultWriter)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting Reelproof API...")

	cfg := config.LoadConfig()

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	blobClient, err := storage.NewClient(context.Background(), cfg.GCSBucket, cfg.GCSCredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}
	defer blobClient.Close()

	mail := mailer.New(cfg)
	if !mail.Enabled() {
		log.Warn("No SMTP transport configured; invite links will be returned in responses.")
	}

	registerValidators()

	api := handlers.NewHandlers(cfg, queries.NewStore(), blobClient, mail)
	jwtSecret := []byte(cfg.JwtSecret)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AppURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.HealthCheck)

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/register", api.RegisterUser)
		authRoutes.POST("/login", api.LoginUser)
		authRoutes.POST("/setup-password", api.SetupPassword)
		authRoutes.POST("/forgot-password", api.ForgotPassword)
		authRoutes.POST("/reset-password", api.ResetPassword)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/auth/me", api.Me)
		protected.PUT("/auth/me", api.UpdateMe)
		protected.POST("/auth/invite", middleware.RequireEditor(), api.InviteUser)

		userRoutes := protected.Group("/users", middleware.RequireEditor())
		{
			userRoutes.GET("", api.ListUsers)
			userRoutes.POST("", api.CreateUser)
			userRoutes.GET("/clients", api.ListClients)
			userRoutes.GET("/:id", api.GetUser)
			userRoutes.PUT("/:id", api.UpdateUser)
			userRoutes.DELETE("/:id", api.DeleteUser)
		}

		videoRoutes := protected.Group("/videos")
		{
			videoRoutes.POST("", middleware.RequireEditor(), api.CreateVideo)
			videoRoutes.GET("", middleware.RequireEditor(), api.ListVideos)
			videoRoutes.GET("/client/:clientId", api.ListClientVideos)
			videoRoutes.GET("/month/:monthId", api.ListMonthVideos)
			videoRoutes.GET("/:id", api.GetVideo)
			videoRoutes.PUT("/:id/status", api.SetVideoStatus)
			videoRoutes.DELETE("/:id", middleware.RequireEditor(), api.DeleteVideo)
			videoRoutes.POST("/:id/comments", api.AddComment)
			videoRoutes.GET("/:id/comments", api.ListComments)
		}

		commentRoutes := protected.Group("/comments")
		{
			commentRoutes.DELETE("/:commentId", api.DeleteComment)
			commentRoutes.PUT("/:commentId/resolve", api.ResolveComment)
		}

		monthRoutes := protected.Group("/months")
		{
			monthRoutes.GET("", api.ListMonths)
			monthRoutes.GET("/:id", api.GetMonth)
			monthRoutes.POST("", middleware.RequireEditor(), api.CreateMonth)
			monthRoutes.PUT("/:id", middleware.RequireEditor(), api.RenameMonth)
			monthRoutes.DELETE("/:id", middleware.RequireEditor(), api.DeleteMonth)
		}

		storageRoutes := protected.Group("/storage")
		{
			storageRoutes.POST("/upload", middleware.RequireEditor(), api.UploadVideo)
			storageRoutes.GET("/signed-url", api.SignedURL)
			storageRoutes.POST("/sync", middleware.RequireEditor(), api.SyncStorage)
		}

		socialRoutes := protected.Group("/social-media", middleware.RequireEditor())
		{
			socialRoutes.POST("/accounts", api.CreateSocialAccount)
			socialRoutes.GET("/accounts/client/:clientId", api.ListClientAccounts)
			socialRoutes.PUT("/accounts/:id", api.UpdateSocialAccount)
			socialRoutes.DELETE("/accounts/:id", api.DeleteSocialAccount)

			socialRoutes.POST("/metrics", api.UpsertMetrics)
			socialRoutes.DELETE("/metrics/:id", api.DeleteMetricsRow)
			socialRoutes.GET("/metrics/client/:clientId", api.ClientMetricsSummary)
			socialRoutes.GET("/metrics/account/:accountId", api.ListAccountMetrics)
			socialRoutes.GET("/metrics/account/:accountId/range", api.ListAccountMetricsRange)
			socialRoutes.GET("/metrics/account/:accountId/month/:monthId", api.ListAccountMetricsByMonth)
			socialRoutes.GET("/metrics/account/:accountId/latest", api.LatestAccountMetrics)
			socialRoutes.GET("/metrics/account/:accountId/growth", api.AccountGrowth)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully.")
}
