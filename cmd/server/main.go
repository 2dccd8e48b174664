package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/sessions"

	"github.com/veriplagio/veriplagio/internal/analysis"
	"github.com/veriplagio/veriplagio/internal/api"
	"github.com/veriplagio/veriplagio/internal/config"
	"github.com/veriplagio/veriplagio/internal/document"
	"github.com/veriplagio/veriplagio/internal/report"
	"github.com/veriplagio/veriplagio/internal/search"
	"github.com/veriplagio/veriplagio/internal/session"
	"github.com/veriplagio/veriplagio/pkg/docstore"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "VERIPLAGIO: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration from the environment (.env supported)
	cfg := config.Load(logger)
	if cfg.DeepSeekAPIKey == "" {
		logger.Printf("WARNING: DEEPSEEK_API_KEY not set. Plagiarism analysis calls will fail.")
	}
	if cfg.SerpAPIKey == "" {
		logger.Printf("WARNING: SERPAPI_API_KEY not set. Source resolution will degrade to the not-found sentinel.")
	}
	if cfg.GPTZeroAPIKey == "" {
		logger.Printf("WARNING: GPTZERO_API_KEY not set. AI detection calls will fail.")
	}

	// Initialize upstream clients with the configured timeout
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	analyzer := analysis.NewClient(cfg.AnalysisBaseURL, cfg.DeepSeekAPIKey, cfg.AnalysisModel, logger)
	analyzer.SetHTTPClient(httpClient)
	detector := analysis.NewDetector(cfg.DetectorBaseURL, cfg.GPTZeroAPIKey, logger)
	detector.SetHTTPClient(httpClient)
	paraphraser := analysis.NewParaphraser(cfg.AnalysisBaseURL, cfg.DeepSeekAPIKey, logger)
	paraphraser.SetHTTPClient(httpClient)

	searchClient := search.NewClient(cfg.SearchBaseURL, cfg.SerpAPIKey, cfg.SearchEngine, logger)
	searchClient.SetHTTPClient(httpClient)
	resolver := search.NewResolver(searchClient, logger)

	// Initialize the report parser with source resolution
	parser := report.NewParser(resolver, logger)

	// Initialize document processing
	processor := document.NewProcessor(logger, cfg.MaxUploadBytes)

	// Initialize the generated-document store
	docs := docstore.New()
	defer docs.Close()

	// Create a secure key for sessions
	key := []byte(cfg.SessionSecret)
	if len(key) == 0 {
		key = []byte("veriplagio-dev-key") // Fallback for development
		logger.Printf("WARNING: Using insecure default session key. Set SESSION_SECRET for production.")
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.DocumentTTL / time.Second),
		HttpOnly: true,
	}
	sessionManager := session.NewManager(logger, store)

	// Initialize handler
	handler := api.NewHandler(
		cfg,
		processor,
		analyzer,
		detector,
		paraphraser,
		searchClient,
		resolver,
		parser,
		report.NewStaticSource(),
		docs,
		sessionManager,
		logger,
	)

	router := api.NewRouter(handler, cfg.MaxUploadBytes, logger)

	// Upstream analysis calls are synchronous, so the write timeout has
	// to outlast the outbound HTTP timeout.
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 30*time.Second,
	}

	logger.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}
