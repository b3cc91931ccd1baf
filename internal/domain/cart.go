package domain

import "time"

type Cart struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customerId"`
	TotalAmount Money      `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
	Lines       []CartLine `json:"items"`
}

type CartLine struct {
	ID          string    `json:"id"`
	CartID      string    `json:"cartId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Quantity    int       `json:"quantity"`
	Price       Money     `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LineTotal is price × quantity for a single line.
func (l CartLine) LineTotal() Money {
	return l.Price.Times(l.Quantity)
}

// ComputeTotal sums the lines; the stored total must always equal it.
func (c *Cart) ComputeTotal() Money {
	var total Money
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}
