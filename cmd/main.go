package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"civicgo/backend/internal/api/handler"
	"civicgo/backend/internal/api/middleware"
	"civicgo/backend/internal/complaint"
	"civicgo/backend/internal/config"
	"civicgo/backend/internal/livehub"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/notify"
	"civicgo/backend/internal/storage"
	"civicgo/backend/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.ComplaintImage{},
		&models.ComplaintUpdate{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CivicGo Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.MustLoad()

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTTTL)

	// 2. Сповіщення: SMTP + опціональний Telegram-канал операторів
	sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	dispatcher := notify.NewDispatcher(sender, notify.NewTelegramAlerter(cfg.TelegramBotToken, cfg.TelegramAdminChat))

	complaints := complaint.NewService(s, dispatcher)

	// 3. Жива стрічка для адмін-дашбордів
	hub := livehub.NewManager(livehub.NewRedisSource(s.SubscribeComplaintEvents()))
	go hub.Run()

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(s, codec, complaints, hub, cfg.UploadDir)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))
	r.Use(middleware.Identity(codec, s))
	r.Use(middleware.Authorize(middleware.DefaultPolicy()))

	// Роути
	auth := r.Group("/auth")
	auth.Use(middleware.RateLimit(s, cfg.AuthRateLimit, cfg.AuthRateWindow))
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/signin", h.Signin)
		auth.GET("/me", h.Me)
	}

	citizen := r.Group("/citizen")
	{
		citizen.POST("/complaints", h.CreateComplaint)
		citizen.GET("/complaints", h.MyComplaints)
		citizen.GET("/complaints/:id", h.ComplaintByID)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/complaints", h.AllComplaints)
		admin.PUT("/complaints/:id/status", h.UpdateComplaintStatus)
		admin.GET("/complaints/live", h.LiveFeed)
	}

	public := r.Group("/public")
	{
		public.GET("/complaints/heatmap", h.Heatmap)
		public.GET("/complaints/stats", h.Stats)
		public.GET("/complaints/types", h.ComplaintTypes)
	}

	r.POST("/upload", h.Upload)
	r.Static("/uploads", cfg.UploadDir)

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           cfg.ServerAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
