package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sylly/backend/internal/api"
	"github.com/sylly/backend/internal/calendar"
	"github.com/sylly/backend/internal/config"
	"github.com/sylly/backend/internal/extract"
	"github.com/sylly/backend/internal/logging"
	"github.com/sylly/backend/internal/storage"
	"github.com/sylly/backend/internal/upload"
	"github.com/sylly/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath, err := resolveConfigPath()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log := logging.Component("server")

	if err := cfg.EnsureDirectories(); err != nil {
		log.WithError(err).Fatal("failed to create directories")
	}

	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir(), cfg.Storage.PublicPrefix, cfg.Storage.IgnorePatterns)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	extractor := newExtractor(cfg)
	uploadMgr := upload.NewManager(upload.NewValidator(cfg.Storage.MaxUploadBytes), fileStore, extractor)

	e := echo.New()
	e.HideBanner = true
	api.SetupErrorHandling(e)

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(func(c echo.Context) bool {
		if !cfg.Logging.EnableRequestLogging {
			return true
		}
		path := c.Request().URL.Path
		return path == "/api/health" || path == "/health"
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.WithError(err).WithField("stack", string(stack)).Error("panic recovered")
			return err
		},
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			// Extraction is bounded by its own timeout.
			return c.Request().URL.Path == api.ExtractPath
		},
		ErrorMessage: "Request timeout",
	}))

	if cfg.Server.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/"+strings.Trim(cfg.Storage.PublicPrefix, "/")+"/")
			},
		}))
	}

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Pipeline:       uploadMgr,
		Lister:         fileStore,
		TempDir:        cfg.GetTempDir(),
		Version:        Version,
		ExtractionMode: cfg.Extraction.Mode,
		Calendar:       calendar.NewEncoder(),
	}))
	web.RegisterUploadRoutes(e, cfg.Storage.PublicPrefix, fileStore.Dir())

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Sylly Syllabus Server                           ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Extraction: %-45s║\n", cfg.Extraction.Mode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Uploads:   %-46s║\n", fileStore.Dir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server stopped")
	}
}

// resolveConfigPath prefers SYLLY_CONFIG, then sylly.yaml beside the executable.
func resolveConfigPath() (string, error) {
	if p := os.Getenv("SYLLY_CONFIG"); p != "" {
		return p, nil
	}
	exePath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exePath), "sylly.yaml"), nil
}

func newExtractor(cfg *config.AppConfig) extract.Extractor {
	if cfg.Extraction.Mode == config.ExtractModeMock {
		logrus.WithField("component", "server").Warn("extraction mode is mock, uploads return sample events")
		return extract.NewMock()
	}
	return extract.NewScriptExtractor(
		cfg.Extraction.Interpreter,
		cfg.Extraction.Args,
		cfg.Extraction.Script,
		cfg.GetExtractionTimeout(),
	)
}
