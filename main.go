package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/config"
	"github.com/pixelgrove/photovaultbackend/database"
	"github.com/pixelgrove/photovaultbackend/handlers"
	"github.com/pixelgrove/photovaultbackend/models"
	"github.com/pixelgrove/photovaultbackend/repository"
	"github.com/pixelgrove/photovaultbackend/scripting"
	"github.com/pixelgrove/photovaultbackend/tagger"
	"github.com/pixelgrove/photovaultbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	log.Printf("Ensuring thumbnails directory exists: %s", cfg.ThumbnailsDir())
	if err := os.MkdirAll(cfg.ThumbnailsDir(), 0755); err != nil {
		log.Fatalf("FATAL: Failed to create thumbnails directory %s: %v", cfg.ThumbnailsDir(), err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	assetRepo := repository.NewAssetRepository(db)
	technicalRepo := repository.NewTechnicalMetadataRepository(db)
	tagRepo := repository.NewTagRepository(db)
	customFieldRepo := repository.NewCustomFieldRepository(db)
	scriptRepo := repository.NewScriptRepository(db)
	ledgerRepo := repository.NewExecutionLogRepository(db)
	pollStateRepo := repository.NewPollStateRepository(db)
	userRepo := repository.NewUserRepository(db)

	seedAdminIfAbsent(userRepo, cfg)

	executor, err := scripting.NewExecutor(scriptRepo, ledgerRepo, cfg.ScriptTimeout)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize script executor: %v", err)
	}

	aiTagger := tagger.New(cfg.TaggerExecutable(), cfg.TaggerScript(), cfg.TaggerTimeout())
	if aiTagger.Enabled() {
		log.Printf("AI tagger enabled: %s", cfg.TaggerExecutable())
	} else {
		log.Println("AI tagger disabled: no executable configured")
	}

	pipeline := &workers.Pipeline{
		Cfg:          cfg,
		Assets:       assetRepo,
		Technical:    technicalRepo,
		Tags:         tagRepo,
		CustomFields: customFieldRepo,
		Users:        userRepo,
		Ledger:       ledgerRepo,
		Tagger:       aiTagger,
		Scripts:      executor,
	}

	detector := workers.NewChangeDetector(cfg, pollStateRepo)
	scheduler := workers.NewScheduler(cfg, detector, pipeline, executor)
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("Monitoring repository: %s", cfg.RepositoryPath())
	log.Printf("Using database: %s", cfg.DatabasePath())
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize())

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(corsHandler.Handler)

	assetHandler := &handlers.AssetHandler{
		Pipeline:     pipeline,
		Assets:       assetRepo,
		Tags:         tagRepo,
		CustomFields: customFieldRepo,
		Ledger:       ledgerRepo,
	}
	scriptHandler := &handlers.ScriptHandler{Scripts: scriptRepo, Executor: executor}
	executionHandler := &handlers.ExecutionHandler{DB: db}

	r.Route("/api", func(r chi.Router) {
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", assetHandler.ListAssets)
			r.Get("/lookup", assetHandler.LookupAsset)
			r.Post("/process", assetHandler.ProcessAsset)
			r.Get("/{asset_id}/enrichment", assetHandler.GetAssetEnrichment)
		})

		r.Route("/scripts", func(r chi.Router) {
			r.Post("/", scriptHandler.CreateScript)
			r.Get("/", scriptHandler.ListScripts)
			r.Post("/reload", scriptHandler.ReloadScripts)
			r.Get("/extension/{extension}", scriptHandler.GetScriptForExtension)
		})

		r.Get("/executions", executionHandler.ListExecutions)

		r.Get("/thumbnails/*", handlers.ThumbnailServer(cfg.ThumbnailsDir()))
	})

	serverAddr := ":" + cfg.HTTPPort()
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// seedAdminIfAbsent creates the configured administrator account when the
// directory has none; without at least one admin every ingestion aborts
func seedAdminIfAbsent(users *repository.UserRepository, cfg *config.Provider) {
	_, err := users.GetFirstAdmin()
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("FATAL: Failed to check for administrator account: %v", err)
	}

	email := cfg.AdminEmail()
	password := cfg.AdminPassword()
	if email == "" || password == "" {
		log.Println("Warning: no administrator account exists and no admin credentials configured; ingestion will fail until one is created")
		return
	}

	admin := &models.User{Email: email, DisplayName: "Administrator", IsAdmin: true}
	if err := admin.SetPassword(password); err != nil {
		log.Fatalf("FATAL: Failed to hash admin password: %v", err)
	}
	if err := users.Create(admin); err != nil {
		log.Fatalf("FATAL: Failed to seed administrator account: %v", err)
	}
	log.Printf("Seeded administrator account %s", email)
}
