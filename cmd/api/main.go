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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/cuse-rank-api/internal/config"
	"github.com/yourusername/cuse-rank-api/internal/handler"
	"github.com/yourusername/cuse-rank-api/internal/metrics"
	"github.com/yourusername/cuse-rank-api/internal/middleware"
	pgRepo "github.com/yourusername/cuse-rank-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/cuse-rank-api/internal/repository/redis"
	"github.com/yourusername/cuse-rank-api/internal/service"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
	ws "github.com/yourusername/cuse-rank-api/internal/websocket"
	"github.com/yourusername/cuse-rank-api/pkg/auth"
	"github.com/yourusername/cuse-rank-api/pkg/database"
)

func main() {
	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		log.Printf("Файл .env не загружен: %v", err)
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), !isProduction)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Server.MigrationsPath); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	eventRepo := pgRepo.NewEventRepo(db)
	posterRepo := pgRepo.NewPosterRepo(db)
	masterRepo := pgRepo.NewJudgeMasterRepo(db)
	judgeRepo := pgRepo.NewEventJudgeRepo(db)
	assignmentRepo := pgRepo.NewAssignmentRepo(db)
	evaluationRepo := pgRepo.NewEvaluationRepo(db)
	rankingRepo := pgRepo.NewRankingRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Метрики собираются в собственный реестр и отдаются на /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Письма с кодами доступа отправляются, только если задан ключ Resend
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.ResendAPIKey != "" {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.PortalURL, cfg.Email.RatePerSecond)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	} else {
		log.Println("RESEND_API_KEY не задан, письма судьям не отправляются")
	}

	// WebSocket hub рейтингов
	wsHub := ws.NewHub(recorder)
	go wsHub.Run(ctx)

	// Движок подсчета баллов
	engine := scoring.NewEngine(scoring.Stores{
		Events:      eventRepo,
		Posters:     posterRepo,
		Evaluations: evaluationRepo,
		Assignments: assignmentRepo,
		Rankings:    rankingRepo,
	}, scoring.WithConcurrency(cfg.Scoring.Concurrency))

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	eventService := service.NewEventService(eventRepo)
	uploadService := service.NewUploadService(eventRepo, posterRepo, masterRepo, judgeRepo, emailService)
	assignmentService := service.NewAssignmentService(eventRepo, judgeRepo, posterRepo, assignmentRepo)
	judgeService := service.NewJudgeService(eventRepo, posterRepo, masterRepo, judgeRepo, assignmentRepo, evaluationRepo)
	judgeService.SetMetrics(recorder)
	scoreService := service.NewScoreService(engine, eventRepo, rankingRepo, cacheRepo, cfg.Scoring.CacheTTL, wsHub, recorder)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(eventService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	judgeHandler := handler.NewJudgeHandler(judgeService)
	scoreHandler := handler.NewScoreHandler(scoreService)
	wsHandler := handler.NewWSHandler(wsHub, jwtService, eventService, cfg.CORS.AllowedOrigins)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// В production не доверяем прокси-заголовкам (защита от IP spoofing в rate limiter)
	trustedProxies := []string{"127.0.0.1", "::1"}
	if isProduction {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(recorder.GinMiddleware())

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.LoginRateLimitConfig()), authHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.LoginRateLimitConfig()), authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// Портал судьи: вход по netid и коду доступа
		judges := api.Group("/judges")
		judges.Use(rateLimiter.LimitByIP(middleware.EvaluationRateLimitConfig(cfg.RateLimit.EvaluationsPerMinute)))
		{
			judges.GET("/assignments", judgeHandler.GetAssignments)
			judges.POST("/evaluations", judgeHandler.SubmitEvaluation)
		}

		// Маршруты организаторов и администраторов
		authed := api.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.GET("/organizers", authMiddleware.AdminOnly(), authHandler.ListOrganizers)
			authed.POST("/judges-master/upload", authMiddleware.AdminOnly(), uploadHandler.UploadJudgeMaster)

			authed.GET("/events", eventHandler.ListEvents)
			authed.POST("/events", eventHandler.CreateEvent)

			eventWithID := authed.Group("/events/:eventId")
			eventWithID.Use(middleware.ExtractUUIDParam("eventId", handler.ContextEventID))
			{
				eventWithID.GET("", eventHandler.GetEvent)
				eventWithID.PUT("", eventHandler.UpdateEvent)
				eventWithID.DELETE("", eventHandler.DeleteEvent)

				// Изменять данные мероприятия могут только создатель и администратор
				eventAccess := eventHandler.RequireEventAccess()
				eventWithID.POST("/uploads/judges", eventAccess, uploadHandler.UploadJudges)
				eventWithID.POST("/uploads/posters", eventAccess, uploadHandler.UploadPosters)
				eventWithID.GET("/uploads/status", uploadHandler.Status)

				eventWithID.GET("/assignments", assignmentHandler.GetAssignments)
				eventWithID.POST("/assignments", eventAccess, assignmentHandler.CreateAssignments)
				eventWithID.POST("/assignments/auto", eventAccess, assignmentHandler.AutoAssign)
			}

			authed.POST("/scoring/:eventId",
				middleware.ExtractUUIDParam("eventId", handler.ContextEventID),
				eventHandler.RequireEventAccess(),
				scoreHandler.RunScoring)

			scores := authed.Group("/scores/:eventId")
			scores.Use(middleware.ExtractUUIDParam("eventId", handler.ContextEventID))
			{
				scores.GET("", scoreHandler.GetScores)
				scores.GET("/export", scoreHandler.ExportScores)
			}

			authed.GET("/ranked-posters", scoreHandler.RankedPosters)
		}
	}

	// WebSocket маршрут: JWT передается в query параметре
	router.GET("/ws/events/:eventId/rankings",
		middleware.ExtractUUIDParam("eventId", handler.ContextEventID),
		wsHandler.SubscribeRankings)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	// Останавливаем hub и фоновые горутины
	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
