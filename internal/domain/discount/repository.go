package discount

import (
	"context"
)

// Repository defines the interface for discount data access
type Repository interface {
	Create(ctx context.Context, discount *Discount) error
	Get(ctx context.Context, id string) (*Discount, error)
	GetByCode(ctx context.Context, code string) (*Discount, error)
	List(ctx context.Context) ([]*Discount, error)
	// ListForLevel returns discounts usable with the given level: those
	// restricted to it plus the unrestricted ones.
	ListForLevel(ctx context.Context, levelID string) ([]*Discount, error)
}
