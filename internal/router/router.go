package router

import (
	"time"

	"github.com/anonto42/fotofolio/backend/internal/handlers"
	"github.com/anonto42/fotofolio/backend/internal/middleware"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/anonto42/fotofolio/backend/internal/unsplash"
	"github.com/anonto42/fotofolio/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stores groups the repositories every service is built from
type Stores struct {
	Users         repositories.UserRepository
	Follows       repositories.FollowRepository
	Activities    repositories.ActivityRepository
	Notifications repositories.NotificationRepository
	Photos        repositories.PhotoRepository
	Boards        repositories.BoardRepository
	Comments      repositories.CommentRepository
}

// NewStores migrates the relational models and builds the postgres and mongo repositories
func NewStores(pgdb *gorm.DB, mdb *mongo.Database) (Stores, error) {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Activity{},
		&models.Notification{},
	)
	if err != nil {
		return Stores{}, err
	}
	return Stores{
		Users:         repositories.NewPostgresUserRepository(pgdb),
		Follows:       repositories.NewPostgresFollowRepository(pgdb),
		Activities:    repositories.NewPostgresActivityRepository(pgdb),
		Notifications: repositories.NewPostgresNotificationRepository(pgdb),
		Photos:        repositories.NewMongoPhotoRepository(mdb),
		Boards:        repositories.NewMongoBoardRepository(mdb),
		Comments:      repositories.NewMongoCommentRepository(mdb),
	}, nil
}

// Options carries the non-store dependencies. Provider and Verifier may be nil.
type Options struct {
	JWTSecret string
	JWTExpiry time.Duration
	Provider  unsplash.Provider
	Verifier  services.TokenVerifier
	Logger    *zap.Logger
}

// SetupRoutes builds the services and registers every route on e
func SetupRoutes(e *echo.Echo, stores Stores, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e.Validator = validators.NewValidator()
	e.JSONSerializer = validators.StrictJSONSerializer{}

	// --- Services ---
	recorder := services.NewRecorder(services.RecorderDeps{
		Activities:    stores.Activities,
		Notifications: stores.Notifications,
		Users:         stores.Users,
		Photos:        stores.Photos,
		Boards:        stores.Boards,
		Comments:      stores.Comments,
	}, logger)
	authSvc := services.NewAuthService(stores.Users, stores.Follows, opts.Verifier, opts.JWTSecret, opts.JWTExpiry, logger)
	followSvc := services.NewFollowService(stores.Users, stores.Follows, recorder)
	photoSvc := services.NewPhotoService(stores.Photos, opts.Provider, recorder, logger)
	boardSvc := services.NewBoardService(stores.Boards, stores.Photos, stores.Users, photoSvc, recorder)
	commentSvc := services.NewCommentService(stores.Comments, stores.Photos, stores.Users, recorder, logger)
	searchSvc := services.NewSearchService(stores.Photos, stores.Boards, stores.Users)
	statsSvc := services.NewStatsService(stores.Boards, stores.Photos, stores.Follows, recorder)

	protect := middleware.JWTAuthMiddleware(opts.JWTSecret)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")

	handlers.NewAuthHandler(authSvc).RegisterAuthRoutes(api.Group("/auth"), protect)

	users := api.Group("/users")
	handlers.NewFollowHandler(followSvc).RegisterFollowRoutes(users, protect)
	userHandler := handlers.NewUserHandler(authSvc, searchSvc, statsSvc)
	userHandler.RegisterStatsRoutes(users, protect)
	userHandler.RegisterSearchRoutes(api.Group("/search", middleware.OptionalJWTAuth(opts.JWTSecret)))

	photos := api.Group("/photos")
	handlers.NewPhotoHandler(photoSvc).RegisterPhotoRoutes(photos, protect)
	handlers.NewCommentHandler(commentSvc).RegisterCommentRoutes(photos, api.Group("/comments"), protect)

	handlers.NewBoardHandler(boardSvc).RegisterBoardRoutes(api.Group("/boards", protect))
	handlers.NewFeedHandler(recorder).RegisterFeedRoutes(api.Group("/activity", protect))
	handlers.NewNotificationHandler(recorder).RegisterNotificationRoutes(api.Group("/notifications", protect))

	logger.Info("routes configured", zap.Int("count", len(e.Routes())))
}
