package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusCompleted, OrderStatusCancelled},
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	v := strings.TrimSpace(s)
	for _, st := range []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled} {
		if strings.EqualFold(v, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// CanTransitionTo reports whether an order in status s may move to next.
// Setting the current status again is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderStatusTransitions[s]) == 0
}

type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customerId"`
	OrderDate   time.Time   `json:"orderDate"`
	Status      OrderStatus `json:"status"`
	TotalAmount Money       `json:"totalAmount"`
	Comments    string      `json:"comments"`
	Lines       []OrderLine `json:"items"`
	Invoice     *Invoice    `json:"invoice,omitempty"`
}

type OrderLine struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
}

// OrderLinesFromCart snapshots the cart lines in their stored order.
func OrderLinesFromCart(lines []CartLine) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}
	return out
}
