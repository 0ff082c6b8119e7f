package level

import (
	"context"
)

// Repository defines the interface for subscription level data access
type Repository interface {
	Create(ctx context.Context, level *Level) error
	Get(ctx context.Context, id string) (*Level, error)
	GetByRole(ctx context.Context, role string) (*Level, error)
	ListActive(ctx context.Context) ([]*Level, error)
	Update(ctx context.Context, level *Level) error
}
