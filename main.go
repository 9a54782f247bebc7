package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jabezgenics-alt/ezzo-sales/config"
	"github.com/jabezgenics-alt/ezzo-sales/cron"
	"github.com/jabezgenics-alt/ezzo-sales/database"
	chunkRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/chunk"
	enquiryRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/enquiry"
	quoteRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/quote"
	ruleRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/rule"
	treeRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/tree"
	userRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/user"
	"github.com/jabezgenics-alt/ezzo-sales/handlers"
	"github.com/jabezgenics-alt/ezzo-sales/middleware"
	"github.com/jabezgenics-alt/ezzo-sales/routes"
	"github.com/jabezgenics-alt/ezzo-sales/services/catalog"
	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/services/enquiry"
	"github.com/jabezgenics-alt/ezzo-sales/services/intelligence"
	"github.com/jabezgenics-alt/ezzo-sales/services/quote"
	"github.com/jabezgenics-alt/ezzo-sales/services/tasks"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	treeRepo := treeRepoPkg.NewMongoTreeRepo()
	ruleRepo := ruleRepoPkg.NewMongoRuleRepo()
	enquiryRepo := enquiryRepoPkg.NewMongoEnquiryRepo()
	quoteRepo := quoteRepoPkg.NewMongoQuoteRepo()
	chunkRepo := chunkRepoPkg.NewMongoChunkRepo()

	if err := chunkRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Sugar().Fatalf("main: failed to create catalog indexes: %v", err)
	}

	// intelligence adapters. Without an API key the deterministic
	// fallbacks carry the whole conversation.
	var generator intelligence.TextGenerator
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := intelligence.NewGeminiClient(context.Background(), key)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
		}
		generator = gemini
	}
	classifier := &intelligence.TreeClassifier{Generator: generator}
	interpreter := &intelligence.ReplyInterpreter{Generator: generator}

	// quotation engine.
	resolver := &catalog.CatalogResolver{
		Chunks:      chunkRepo,
		Cache:       utils.GetCacheClient(),
		CacheTTL:    time.Duration(config.AppConfig.PriceCacheTTLMin) * time.Minute,
		SearchLimit: int64(config.AppConfig.PriceSearchLimit),
		MaxPrice:    config.AppConfig.MaxPriceThreshold,
	}
	evaluator := engine.NewEvaluator()
	composer := &engine.Composer{
		Resolver:       resolver,
		DefaultTaxRate: config.AppConfig.DefaultTaxRate,
		TaxLabel:       "GST",
		Logger:         logger,
	}

	// delivery queue and worker.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDeliveryDB,
	})
	defer asynqClient.Close()
	cron.InitDeliveryWorker(enquiryRepo)

	// services.
	quoteService := &quote.DefaultQuoteService{
		QuoteRepo:   quoteRepo,
		EnquiryRepo: enquiryRepo,
		Delivery:    tasks.NewAsynqDeliveryQueue(asynqClient),
	}
	enquiryService := &enquiry.DefaultEnquiryService{
		EnquiryRepo: enquiryRepo,
		TreeRepo:    treeRepo,
		RuleRepo:    ruleRepo,
		Classifier:  classifier,
		Interpreter: interpreter,
		Evaluator:   evaluator,
		Composer:    composer,
		Quotes:      quoteService,
		Region:      "SG",
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:  userRepo,
		TreeRepo:  treeRepo,
		RuleRepo:  ruleRepo,
		ChunkRepo: chunkRepo,
		Enquiries: enquiryService,
		Quotes:    quoteService,
		Evaluator: evaluator,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	database.Close(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
