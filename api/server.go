package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	shutdownGrace        = 10 * time.Second
	baseReadTimeout      = 15 * time.Second
	baseWriteTimeout     = 30 * time.Second
	unboundedAnalysis    = 90 * time.Second
	uploadBytesPerSecond = 1 << 20
)

// serverTimeouts sizes the HTTP deadlines for the largest request the API
// accepts: a full batch uploaded at a modest rate, then analysed
// batchConcurrency images at a time.
func (c Config) serverTimeouts() (read, write time.Duration) {
	read = baseReadTimeout
	if limit := requestLimit(c.MaxImageBytes, MaxBatchImages); limit > 0 {
		read += time.Duration(limit/uploadBytesPerSecond) * time.Second
	}

	perImage := c.Analysis.TimeBudget
	if perImage <= 0 {
		perImage = unboundedAnalysis
	}
	rounds := (MaxBatchImages + batchConcurrency - 1) / batchConcurrency
	write = read + baseWriteTimeout + perImage*time.Duration(rounds)
	return read, write
}

func (app *Application) newServer(mux *http.ServeMux) *http.Server {
	read, write := app.Config.serverTimeouts()
	return &http.Server{
		Addr:         app.Config.HTTPPort,
		Handler:      app.BuildRoutes(mux),
		IdleTimeout:  time.Minute,
		ReadTimeout:  read,
		WriteTimeout: write,
	}
}

// Serve runs the API until SIGINT or SIGTERM, then drains in-flight analyses.
func (app *Application) Serve(mux *http.ServeMux) error {
	srv := app.newServer(mux)
	log.Printf("starting server on port %v (read timeout %v, write timeout %v)", srv.Addr, srv.ReadTimeout, srv.WriteTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Printf("shutting down server, waiting up to %v for running analyses", shutdownGrace)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Printf("stopped server %v", srv.Addr)
	return nil
}
