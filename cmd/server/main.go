package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kiettt23/vendoor-sub002/internal/adapter/events"
	"github.com/kiettt23/vendoor-sub002/internal/adapter/handler"
	"github.com/kiettt23/vendoor-sub002/internal/adapter/storage"
	"github.com/kiettt23/vendoor-sub002/internal/config"
	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/core/service"
)

const eventBufferSize = 10000

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Initialize adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	members := storage.NewMembershipAdapter(db)

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, eventBufferSize)
	publisher.Start(ctx)
	log.Printf("event publisher started, brokers: %v", cfg.KafkaBrokers)

	// Initialize services
	fees := domain.NewFeeCalculator(cfg.PlatformFeeBps)
	couponEvaluator := service.NewCouponEvaluator(mysqlAdapter, members)
	checkoutService := service.NewCheckoutService(mysqlAdapter, redisAdapter, couponEvaluator, publisher, fees)
	statusService := service.NewStatusService(mysqlAdapter, redisAdapter, publisher)
	analyticsService := service.NewAnalyticsService(mysqlAdapter)

	// Initialize HTTP server
	router := gin.Default()
	h := handler.NewHandler(checkoutService, statusService, analyticsService, mysqlAdapter)
	h.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Flush buffered events before dropping connections
	cancel()
	publisher.WaitClosed()
	log.Println("event publisher stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
