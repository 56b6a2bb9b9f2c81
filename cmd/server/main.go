package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/assets"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/auth"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/config"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/content"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/handler"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/middleware"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/repository/postgres"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/service/episode"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	logger.Info("database connected", "table", tables.EpisodeContent)

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	contentRepo := postgres.NewContentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Asset kind registry (placeholders, upload limits)
	assetRegistry, err := assets.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load asset registry: %v", err)
	}

	// Blob store
	blobStore := storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket)

	// One parameterized engine serves both content kinds
	codecs := map[models.Kind]*content.Codec{
		models.KindStoryboard: content.NewCodec(models.KindStoryboard, assetRegistry),
		models.KindDrawing:    content.NewCodec(models.KindDrawing, assetRegistry),
	}
	reconciler := episode.NewReconciler(contentRepo, cfg.SaveTimeout, logger)
	assetMgr := episode.NewAssetManager(blobStore, assetRegistry, logger)
	frameService := episode.NewFrameService(reconciler, codecs, assetMgr, assetRegistry, logger)
	folderService := episode.NewFolderService(reconciler, codecs, assetMgr, assetRegistry, txManager, logger)

	// Handlers
	frameHandler := handler.NewFrameHandler(frameService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	assetHandler := handler.NewAssetHandler(blobStore, assetRegistry, logger)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", assetHandler.HealthCheck)

	// Frame routes
	mux.HandleFunc("GET /api/episodes/{id}/{kind}/frames", frameHandler.ListFrames)
	mux.HandleFunc("POST /api/episodes/{id}/{kind}/frames", frameHandler.CreateFrame)
	mux.HandleFunc("PATCH /api/episodes/{id}/{kind}/frames/{frameId}", frameHandler.UpdateFrame)
	mux.HandleFunc("DELETE /api/episodes/{id}/{kind}/frames/{frameId}", frameHandler.DeleteFrame)
	mux.HandleFunc("POST /api/episodes/{id}/{kind}/frames/{frameId}/position", frameHandler.MoveFrame)
	mux.HandleFunc("PUT /api/episodes/{id}/{kind}/frames/{frameId}/final-art", frameHandler.LinkFinalArt)
	mux.HandleFunc("DELETE /api/episodes/{id}/{kind}/frames/{frameId}/final-art", frameHandler.UnlinkFinalArt)

	// Folder and scene routes
	mux.HandleFunc("GET /api/episodes/{id}/{kind}/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/episodes/{id}/{kind}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/episodes/{id}/{kind}/folders/{folderId}", folderHandler.RenameFolder)
	mux.HandleFunc("DELETE /api/episodes/{id}/{kind}/folders/{folderId}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/episodes/{id}/{kind}/folders/{folderId}/scenes", folderHandler.CreateScene)
	mux.HandleFunc("PATCH /api/episodes/{id}/{kind}/scenes/{sceneId}", folderHandler.UpdateScene)
	mux.HandleFunc("DELETE /api/episodes/{id}/{kind}/scenes/{sceneId}", folderHandler.DeleteScene)

	// Asset routes
	mux.HandleFunc("POST /api/episodes/{id}/assets/{assetKind}", assetHandler.Upload)
	mux.HandleFunc("GET /api/episodes/{id}/assets", assetHandler.List)

	// Middleware chain: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
