package domain

import "time"

// Product is the catalog entry carts and reports read from. Stock is the live
// counter that provisioning uses as a per-unit multiplier.
type Product struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       Money     `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}
