package shortcontext

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context canceled on SIGINT or SIGTERM.
func New() (context.Context, func(), error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, cancel, nil
}
