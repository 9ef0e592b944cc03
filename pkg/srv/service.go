// Package srv runs the long-lived pieces of the assistant: the HTTP
// API, the Telegram poller, and cleanup hooks for shared resources
// such as the session database.
package srv

import (
	"context"

	"github.com/sandevgo/kpigpt/pkg/log"
)

// Service is a process component with a blocking Start and a
// context-bounded Shutdown. Transports implement it directly; bare
// closers are adapted via NewCleanup.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches each service in its own goroutine. A startup
// failure takes the process down.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is cancelled, then shuts the
// services down in registration order.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	for _, service := range services {
		if err := service.Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", service)
		}
	}
}
