package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OpenLiberty/sample-acmegifts/internal/calculator"
	"github.com/OpenLiberty/sample-acmegifts/internal/client"
	"github.com/OpenLiberty/sample-acmegifts/internal/config"
	"github.com/OpenLiberty/sample-acmegifts/internal/directory"
	"github.com/OpenLiberty/sample-acmegifts/internal/handler"
	"github.com/OpenLiberty/sample-acmegifts/internal/service"
	"github.com/OpenLiberty/sample-acmegifts/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	authClient := client.NewAuthClient(cfg.AuthServiceURL, httpClient)
	userClient := client.NewUserClient(cfg.UserServiceURL, cfg.UserLoginURL, httpClient)
	groupClient := client.NewGroupClient(cfg.GroupServiceURL, httpClient)
	occasionClient := client.NewOccasionClient(cfg.OccasionServiceURL, httpClient)

	users := directory.New(userClient, cfg.UserCacheTTL)

	sessions := service.NewSessionService(authClient, userClient, time.Now)
	groups := service.NewGroupService(groupClient, occasionClient, users)
	occasions := service.NewOccasionService(occasionClient, calculator.SystemClock)

	api := handler.New(sessions, groups, occasions, users)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger)
	r.Use(handler.Metrics)

	r.Mount("/api", api.Routes())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)

	// All non-API routes fall through to the SPA, with index.html served
	// for client-side routes.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Gateway starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
