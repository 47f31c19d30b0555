package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"record-store-go/internal/app"
	"record-store-go/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, log)
	if err != nil {
		log.Critical("record-store: init failed", "err", err)
		return 1
	}

	srv := application.HTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		log.Info("record-store: serving", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("record-store: signal received, shutting down")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Critical("record-store: serve failed", "addr", srv.Addr, "err", err)
			code = 1
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("record-store: http shutdown", "err", err)
		code = 1
	}

	// Closes the store side after HTTP so no request publishes into a closed channel.
	if err := application.Close(); err != nil {
		log.Error("record-store: close", "err", err)
		code = 1
	}

	log.Info("record-store: stopped", "exit_code", code)
	return code
}
