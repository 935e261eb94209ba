// internal/domain/channel/source.go

package channel

import (
	"context"
)

// Source provides channel snapshots to the analytics pipeline
type Source interface {
	// GetChannel returns the channel snapshot identified by its title
	GetChannel(ctx context.Context, title string) (*Channel, error)
}

// Saver persists channel snapshots
type Saver interface {
	// SaveChannel stores or replaces a channel snapshot
	SaveChannel(ctx context.Context, ch Channel) error
}

// Store reads and writes channel snapshots
type Store interface {
	Source
	Saver
}
