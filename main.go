package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	mazeapi "github.com/beka-birhanu/vinom-maze/api/maze"
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/infrastruture/pubsub"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/logger"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout = 5 * time.Second
	janitorInterval = time.Minute
)

// Global variables for dependencies
var (
	cfg                config.Config
	redisClient        *redis.Client
	wallPublisher      i.WallPublisher
	jwtTokenizer       *token.JwtService
	mazeSessionManager *service.MazeSessionManager
	mazeController     api_i.Controller
	router             *api.Router
	appLogger          *logger.Logger
)

func initRedis(ctx context.Context) {
	if cfg.RedisAddr == "" {
		appLogger.Warning("REDIS_ADDR not set, wall events will not be published")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	wallPublisher = pubsub.NewRedisWallPublisher(redisClient, cfg.RedisWallPrefix)
	appLogger.Info("Connected to Redis")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(cfg.JWTSecret, cfg.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager logger: %v", err))
		os.Exit(1)
	}

	mazeSessionManager, err = service.NewMazeSessionManager(&service.Config{
		Publisher:  wallPublisher,
		Logger:     sessionLogger,
		MaxSize:    cfg.MaxMazeSize,
		SessionTTL: cfg.SessionTTL,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}

	appLogger.Info("Session manager initialized")
}

func initMazeController() {
	controllerLogger, err := logger.New("MAZE-API", config.ColorMagenta, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller logger: %v", err))
		os.Exit(1)
	}

	mazeController, err = mazeapi.NewMazeController(mazeapi.Config{
		Sessions:     mazeSessionManager,
		Tokenizer:    jwtTokenizer,
		Logger:       controllerLogger,
		DefaultSize:  cfg.DefaultMazeSize,
		TokenTTL:     cfg.TokenTTL,
		StepInterval: cfg.StepInterval,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Maze controller initialized")
}

func initRouter() {
	gin.SetMode(cfg.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", cfg.HostIP, cfg.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{mazeController},
		AuthorizationMiddleware: identity.Authoriz(jwtTokenizer),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	var err error
	if cfg, err = config.Load(); err != nil {
		appLogger.Error(fmt.Sprintf("Loading config: %v", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initRedis(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	initJWTTokenizer()
	initSessionManager()
	initMazeController()
	initRouter()

	go mazeSessionManager.RunJanitor(ctx, janitorInterval)

	// Run HTTP server
	server := router.Server()
	go func() {
		appLogger.Info(fmt.Sprintf("Listening on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Shutting down server: %v", err))
	}
}
