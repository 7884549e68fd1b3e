package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/api/handlers"
	"github.com/veritaslabs/veritas/internal/chunker"
	"github.com/veritaslabs/veritas/internal/config"
	"github.com/veritaslabs/veritas/internal/database"
	"github.com/veritaslabs/veritas/internal/ingest"
	"github.com/veritaslabs/veritas/internal/jobs"
	"github.com/veritaslabs/veritas/internal/media"
	"github.com/veritaslabs/veritas/internal/openai"
	"github.com/veritaslabs/veritas/internal/ratelimit"
	"github.com/veritaslabs/veritas/internal/rerank"
	"github.com/veritaslabs/veritas/internal/retrieval"
	"github.com/veritaslabs/veritas/internal/search"
	"github.com/veritaslabs/veritas/internal/server"
	"github.com/veritaslabs/veritas/internal/storage"
	"github.com/veritaslabs/veritas/internal/telemetry"
	"github.com/veritaslabs/veritas/internal/validation"
	"github.com/veritaslabs/veritas/internal/vectorstore"
)

// sweepInterval paces the maintenance worker that evicts expired search
// cache entries and stale rate-limit timestamps.
const sweepInterval = 10 * time.Minute

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the veritas API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if cfg.SentryDSN != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	if !cfg.HasOpenAI() {
		log.Println("warning: OPENAI_API_KEY not set, ingest and retrieval will fail until configured")
	}
	embedder := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      goopenai.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	var store vectorstore.Store
	if cfg.HasDatabase() {
		pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		log.Println("connected to database")

		// Run migrations unless --no-migrate flag is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		store = vectorstore.NewPGStore(pool, embedder, cfg.EmbeddingDimensions)
	} else {
		log.Println("DATABASE_URL not set, using in-memory vector store")
		store = vectorstore.NewMemoryStore(embedder)
	}

	var archiver ingest.Archiver
	if cfg.HasS3() {
		archive, err := storage.NewArchive(ctx, storage.ArchiveConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create document archive: %w", err)
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure archive bucket: %w", err)
		}
		log.Printf("document archive bucket '%s' ready", cfg.S3Bucket)
		archiver = archive
	}

	limiter := ratelimit.NewLimiter(ratelimit.Limits{
		PerMinute: cfg.MaxQueriesPerMinute,
		PerHour:   cfg.MaxQueriesPerHour,
		PerDay:    cfg.MaxQueriesPerDay,
	})

	providers := []search.Provider{
		search.NewSerperProvider(cfg.SerperAPIKey),
		search.NewPexelsProvider(cfg.PexelsAPIKey),
		search.NewGiphyProvider(cfg.GiphyAPIKey),
		search.NewPixabayProvider(cfg.PixabayAPIKey),
		search.NewDuckDuckGoProvider(),
	}
	chain := search.NewChain(providers, limiter, cfg.SearchCacheTTL())

	rerankClient := rerank.NewClient(rerank.Config{
		URL:    cfg.RerankURL,
		APIKey: cfg.RerankAPIKey,
		Model:  cfg.RerankModel,
	})
	if rerankClient.IsConfigured() {
		log.Println("rerank provider configured")
	}

	retriever := retrieval.NewOrchestrator(embedder, rerankClient)
	finder := media.NewFinder(chain, 0, 0)
	validator := validation.NewOrchestrator(chain, cfg.ValidationMaxSearches)
	ingestSvc := ingest.NewService(store, chunker.DefaultConfig(), archiver)

	worker := jobs.NewWorker(sweepInterval, limiter, chain.CacheSweeper())
	go worker.Start(ctx)
	log.Println("maintenance worker started")

	routerCfg := server.RouterConfig{
		APIToken:         cfg.APIToken,
		DocumentsHandler: handlers.NewDocumentsHandler(ingestSvc),
		RetrieveHandler:  handlers.NewRetrieveHandler(retriever, store),
		MediaHandler:     handlers.NewMediaHandler(finder),
		ValidateHandler:  handlers.NewValidateHandler(validator),
		LimitsHandler:    handlers.NewLimitsHandler(limiter),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
