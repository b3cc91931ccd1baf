package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Ingredients are amounts of the rice recipe; grams for solids, millilitres for liquids.
type Ingredients struct {
	RiceGrams  decimal.Decimal `json:"riceGrams"`
	WaterMl    decimal.Decimal `json:"waterMl"`
	VinegarMl  decimal.Decimal `json:"vinegarMl"`
	SugarGrams decimal.Decimal `json:"sugarGrams"`
	SaltGrams  decimal.Decimal `json:"saltGrams"`
}

// MarshalJSON writes each amount as a JSON number with two decimals.
func (in Ingredients) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RiceGrams  json.Number `json:"riceGrams"`
		WaterMl    json.Number `json:"waterMl"`
		VinegarMl  json.Number `json:"vinegarMl"`
		SugarGrams json.Number `json:"sugarGrams"`
		SaltGrams  json.Number `json:"saltGrams"`
	}{
		RiceGrams:  fixed(in.RiceGrams, 2),
		WaterMl:    fixed(in.WaterMl, 2),
		VinegarMl:  fixed(in.VinegarMl, 2),
		SugarGrams: fixed(in.SugarGrams, 2),
		SaltGrams:  fixed(in.SaltGrams, 2),
	})
}

func fixed(d decimal.Decimal, places int32) json.Number {
	return json.Number(d.StringFixed(places))
}

type ProductRequirement struct {
	ProductID     string `json:"productId"`
	ProductName   string `json:"productName"`
	TotalQuantity int    `json:"totalQuantity"`
	TotalRollouts int64  `json:"totalRollouts"`
}

type ProvisioningReport struct {
	WindowID             int64                `json:"windowId"`
	Interval             Interval             `json:"interval"`
	TotalPendingOrders   int                  `json:"totalPendingOrders"`
	TotalItemsOrdered    int64                `json:"totalItemsOrdered"`
	TotalRollouts        int64                `json:"totalRollouts"`
	FullGroups           int64                `json:"fullGroups"`
	Remainder            int64                `json:"remainder"`
	PreciseGroups        decimal.Decimal      `json:"preciseGroups"`
	IngredientsPrecise   Ingredients          `json:"ingredientsPrecise"`
	IngredientsRoundedUp Ingredients          `json:"ingredientsRoundedUp"`
	PerProduct           []ProductRequirement `json:"perProduct"`
}

// MarshalJSON writes PreciseGroups as a JSON number with four decimals.
func (r ProvisioningReport) MarshalJSON() ([]byte, error) {
	type plain ProvisioningReport
	return json.Marshal(struct {
		plain
		PreciseGroups json.Number `json:"preciseGroups"`
	}{plain(r), fixed(r.PreciseGroups, 4)})
}

// PendingLine is one order line of a Pending order joined with the product's live stock.
type PendingLine struct {
	OrderID      string
	ProductID    string
	ProductName  string
	Quantity     int
	CurrentStock int
}

type PendingTotal struct {
	WindowID    int64    `json:"windowId"`
	Interval    Interval `json:"interval"`
	TotalAmount Money    `json:"totalAmount"`
	Count       int      `json:"count"`
}

type DailyRevenue struct {
	Date        string `json:"date"`
	TotalAmount Money  `json:"totalAmount"`
	OrderCount  int    `json:"orderCount"`
}

type RevenueReport struct {
	Interval    Interval       `json:"interval"`
	TotalAmount Money          `json:"totalAmount"`
	OrderCount  int            `json:"orderCount"`
	Daily       []DailyRevenue `json:"daily"`
}

// OrderDay is a per-day aggregate as read from the store.
type OrderDay struct {
	Day         time.Time
	TotalAmount Money
	OrderCount  int
}
