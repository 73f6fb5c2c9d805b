// Package mirror fans accepted price ticks out to external systems so
// out-of-process consumers can follow the feed. Sinks are best effort and
// never load-bearing for the in-process synchronization path.
package mirror

import (
	"context"

	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

type Sink interface {
	PublishTick(ctx context.Context, tick models.PriceTick) error
	Close() error
}
