package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cci-ingenieria/lectorqr/internal/accessapi"
	"github.com/cci-ingenieria/lectorqr/internal/config"
	"github.com/cci-ingenieria/lectorqr/internal/log"
)

func main() {
	cfg, err := config.LoadMockAPI(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log.Init(cfg.LogLevel)

	store, err := accessapi.ParseAllowList(cfg.Allow)
	if err != nil {
		log.Error("parse allow list", "error", err)
		os.Exit(2)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           accessapi.NewRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("mock access API ready",
		"url", fmt.Sprintf("http://localhost%s%s", cfg.Addr, accessapi.ValidatePath),
		"plates", store.Len(),
	)

	// Wait for interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", "error", err)
	}
}
