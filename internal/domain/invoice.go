package domain

import (
	"fmt"
	"time"
)

type Invoice struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	CustomerID    string    `json:"customerId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	Amount        Money     `json:"amount"`
	DocumentURL   *string   `json:"documentUrl"`
}

// CustomerInvoices is one customer's invoices, newest first.
type CustomerInvoices struct {
	CustomerID string    `json:"customerId"`
	Invoices   []Invoice `json:"invoices"`
}

// GroupInvoicesByCustomer groups invoices already sorted newest first. Groups
// keep the order in which each customer first appears, so the customer with
// the most recent invoice comes first.
func GroupInvoicesByCustomer(invoices []Invoice) []CustomerInvoices {
	groups := []CustomerInvoices{}
	index := make(map[string]int)
	for _, inv := range invoices {
		i, ok := index[inv.CustomerID]
		if !ok {
			i = len(groups)
			index[inv.CustomerID] = i
			groups = append(groups, CustomerInvoices{CustomerID: inv.CustomerID})
		}
		groups[i].Invoices = append(groups[i].Invoices, inv)
	}
	return groups
}

// FormatInvoiceNumber renders INV-{year}-{seq} with the sequence zero padded to six digits.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%06d", year, seq)
}

// InvoiceDocument is everything a renderer needs to produce the customer-facing document.
type InvoiceDocument struct {
	Invoice Invoice
	Order   Order
}
