package srv

import "context"

// cleanupService wraps a closer so it participates in shutdown ordering.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	return c.cleanup()
}

func NewCleanup(cleanup func() error) Service {
	return &cleanupService{cleanup: cleanup}
}
