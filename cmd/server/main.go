package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riskform/internal/cache"
	"riskform/internal/config"
	"riskform/internal/repository"
	"riskform/internal/rules"
	"riskform/internal/service"
	"riskform/internal/transport/rest"
	"riskform/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	schemaRepo := repository.NewSchemaRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)

	// Initialize caches
	schemaCache := cache.NewSchemaCache(rdb)
	draftCache := cache.NewDraftCache(rdb)

	// Initialize services
	evaluator := rules.NewEvaluator(nil)
	authSvc := service.NewAuthService(cfg)
	schemaSvc := service.NewSchemaService(schemaRepo, schemaCache)
	builderSvc := service.NewBuilderService(schemaSvc)
	submissionSvc := service.NewSubmissionService(submissionRepo, schemaSvc, evaluator)
	riskSvc := service.NewRiskService(submissionRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	schemaSvc.SetBroadcaster(wsHub)
	submissionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		Config:            cfg,
		AuthService:       authSvc,
		SchemaService:     schemaSvc,
		BuilderService:    builderSvc,
		SubmissionService: submissionSvc,
		RiskService:       riskSvc,
		DraftCache:        draftCache,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Editor auth: username=%s", cfg.EditorUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/schema")
		log.Println("  GET/PUT /v1/questionnaires/{key}")
		log.Println("  GET/PUT /v1/questionnaires/{key}/questions/{questionKey}/rule")
		log.Println("  GET/PUT /v1/questionnaires/{key}/risks/{riskKey}/rule")
		log.Println("  POST /v1/questionnaires/{key}/evaluate")
		log.Println("  POST/GET /v1/questionnaires/{key}/submissions")
		log.Println("  GET  /v1/systems/{systemId}/risks")
		log.Println("  WS   /v1/ws/editor")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
