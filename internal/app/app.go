package app

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/config"
	"edu_portal/internal/controller"
	"edu_portal/internal/service"
	"edu_portal/internal/session"
	"edu_portal/internal/util"
	"edu_portal/pkg/configwatcher"
	"edu_portal/pkg/database"
	"edu_portal/pkg/logger"
	"edu_portal/pkg/monitoring"
	"edu_portal/pkg/security"
	"edu_portal/pkg/tracing"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Redis    *redis.Client
	API      *apiclient.Client
	Sessions session.Provider

	// ConfigDir 热加载监听的目录，为空时不监听
	ConfigDir string

	limiter *security.RateLimiter
	tracer  *sdktrace.TracerProvider
}

type services struct {
	storage *service.StorageService
}

type controllers struct {
	auth         *controller.AuthController
	assessment   *controller.AssessmentController
	learningPath *controller.LearningPathController
	lesson       *controller.LessonController
	chat         *controller.ChatController
	analytics    *controller.AnalyticsController
	document     *controller.DocumentController
	student      *controller.StudentController
	dashboard    *controller.DashboardController
	health       *controller.HealthController
}

// applyConfig 热加载只更新远端 API 地址，其余配置需要重启
func (a *App) applyConfig(cfg *config.Config) {
	if cfg.API.BaseURL != a.API.BaseURL() {
		logger.Log.Info("API base URL changed",
			zap.String("from", a.API.BaseURL()),
			zap.String("to", cfg.API.BaseURL))
		a.API.SetBaseURL(cfg.API.BaseURL)
	}
}

func (a *App) initServices(cfg *config.Config) *services {
	return &services{
		storage: service.NewStorageService(context.Background(), cfg),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(),
		assessment:   controller.NewAssessmentController(),
		learningPath: controller.NewLearningPathController(),
		lesson:       controller.NewLessonController(),
		chat:         controller.NewChatController(),
		analytics:    controller.NewAnalyticsController(),
		document:     controller.NewDocumentController(s.storage),
		student:      controller.NewStudentController(),
		dashboard:    controller.NewDashboardController(s.storage),
		health:       controller.NewHealthController(a.Redis, a.API),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// sessionProvider 门户只支持 memory 与 redis；file 仅供命令行使用
func sessionProvider(cfg *config.Config, rdb *redis.Client) (session.Provider, error) {
	switch cfg.Session.Store {
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		return session.NewRedisProvider(rdb, cfg.Session.TTL), nil
	case "memory":
		return session.NewMemoryProvider(cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("session store %q is not supported by the portal", cfg.Session.Store)
	}
}

// newApp 组装路由；rdb 可为 nil
func newApp(cfg *config.Config, rdb *redis.Client) (*App, error) {
	provider, err := sessionProvider(cfg, rdb)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Redis:    rdb,
		Sessions: provider,
		API:      apiclient.New(cfg.API.BaseURL, nil, apiclient.WithTimeout(cfg.API.Timeout)),
		limiter:  security.NewRateLimiter(cfg.RateLimit),
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 8 << 20
	app.Router = router

	app.setupMiddlewares(router, cfg)

	s := app.initServices(cfg)
	app.registerRoutes(router, app.initControllers(s))
	router.NoRoute(util.NotFound)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		var err error
		rdb, err = database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app, err := newApp(cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize portal", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edu-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}
	return app
}

func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.limiter.Run(ctx)
	if mp, ok := a.Sessions.(*session.MemoryProvider); ok {
		go mp.Run(ctx)
	}
	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.ConfigDir, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Portal running",
			zap.String("port", a.Config.Server.Port),
			zap.String("api", a.API.BaseURL()),
			zap.String("sessions", a.Config.Session.Store))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("listen failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	// 等待进行中的请求结束（最多 5 秒）
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
