package http_server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Config struct {
	Port    int
	Timeout time.Duration
}

const timeoutBody = `{"error":{"code":"timeout","message":"request timed out"}}`

// New returns a server that shuts down gracefully once ctx is done.
func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if config.Timeout > 0 {
		srv.Handler = http.TimeoutHandler(handler, config.Timeout, timeoutBody)
		srv.WriteTimeout = config.Timeout + time.Second
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return srv
}
