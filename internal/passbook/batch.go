package passbook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// BatchRenderer renders passbooks for every customer through a bounded
// worker pool, so a large customer base doesn't open one store query per
// account all at once.
type BatchRenderer struct {
	renderer *Renderer
	pool     *ants.Pool
	logger   *slog.Logger
}

// NewBatchRenderer creates a batch renderer backed by a worker pool of the
// given size
func NewBatchRenderer(logger *slog.Logger, renderer *Renderer, poolSize int) (*BatchRenderer, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create passbook worker pool: %w", err)
	}

	return &BatchRenderer{
		renderer: renderer,
		pool:     pool,
		logger:   logger,
	}, nil
}

// RenderAll renders a passbook for each known account. Individual failures
// are logged and counted but do not stop the rest of the batch; the error
// summarizes how many accounts failed.
func (b *BatchRenderer) RenderAll(ctx context.Context) error {
	ids, err := b.renderer.customers.ListAccountIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for batch render: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, id := range ids {
		accountID := id
		wg.Add(1)
		submitErr := b.pool.Submit(func() {
			defer wg.Done()
			if _, err := b.renderer.Render(ctx, accountID); err != nil {
				b.logger.Error("failed to render passbook", "account_id", accountID, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			b.logger.Error("failed to submit passbook render", "account_id", accountID, "error", submitErr)
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}

	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d passbooks failed to render", failed, len(ids))
	}
	b.logger.Info("batch passbook render complete", "accounts", len(ids))
	return nil
}

// Release shuts down the worker pool
func (b *BatchRenderer) Release() {
	b.pool.Release()
}
