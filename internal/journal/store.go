package journal

import (
	"context"

	"options-journal/internal/strategy"
)

// Store defines the persistence interface for journaled positions.
type Store interface {
	SavePosition(ctx context.Context, p *Position) error
	GetPosition(ctx context.Context, id string) (*Position, error)
	GetPositions(ctx context.Context, filter Filter) ([]Position, error)
	UpdateMark(ctx context.Context, id string, price, premium float64) error
	ClosePosition(ctx context.Context, id string, pnl float64) error
	Close() error
}

// Filter represents filters for querying positions. Zero values match
// everything.
type Filter struct {
	Symbol   string
	Strategy strategy.Kind
	Status   Status
	Limit    int
}
