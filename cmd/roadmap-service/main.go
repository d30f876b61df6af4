package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"roadmap-backend/internal/api"
	"roadmap-backend/internal/config"
	"roadmap-backend/internal/logger"
	"roadmap-backend/internal/store/filestore"
)

func main() {
	dataDir := flag.String("data-dir", "", "Override ROADMAP_DATA_DIR")
	port := flag.Int("port", 0, "Override ROADMAP_HTTP_PORT")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *port != 0 {
		cfg.HTTPPort = *port
	}

	log := logger.New("roadmap-service", cfg.LogFile)
	zlog.Logger = log
	zerolog.DefaultContextLogger = &log

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("data_dir", cfg.DataDir).
		Int("http_port", cfg.HTTPPort).
		Msg("Roadmap service starting")

	// -------- Storage layer -----------------
	st := filestore.New(afero.NewOsFs(), cfg.DataDir)
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Data directory unavailable")
	}

	// -------- Router & Server --------------
	router := api.NewRouter(cfg, st, st)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // chat responses stream; no fixed write deadline
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
