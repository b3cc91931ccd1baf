package report

import (
	"github.com/shopspring/decimal"
	"sushi-orders/internal/domain"
)

// RolloutsPerGroup is how many rollouts one batch of rice covers.
const RolloutsPerGroup = 7

// recipe is one batch, enough for RolloutsPerGroup rollouts.
var recipe = domain.Ingredients{
	RiceGrams:  decimal.NewFromInt(300),
	WaterMl:    decimal.NewFromInt(400),
	VinegarMl:  decimal.NewFromInt(60),
	SugarGrams: decimal.NewFromInt(15),
	SaltGrams:  decimal.NewFromInt(5),
}

// Aggregate folds pending order lines into a provisioning report. A line needs
// quantity × current stock rollouts.
func Aggregate(lines []domain.PendingLine) domain.ProvisioningReport {
	var (
		rep      domain.ProvisioningReport
		orders   = make(map[string]struct{})
		products = make(map[string]int)
	)
	rep.PerProduct = []domain.ProductRequirement{}

	for _, l := range lines {
		orders[l.OrderID] = struct{}{}
		rollouts := int64(l.Quantity) * int64(l.CurrentStock)
		rep.TotalItemsOrdered += int64(l.Quantity)
		rep.TotalRollouts += rollouts

		idx, ok := products[l.ProductID]
		if !ok {
			idx = len(rep.PerProduct)
			products[l.ProductID] = idx
			rep.PerProduct = append(rep.PerProduct, domain.ProductRequirement{
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
			})
		}
		rep.PerProduct[idx].TotalQuantity += l.Quantity
		rep.PerProduct[idx].TotalRollouts += rollouts
	}

	rep.TotalPendingOrders = len(orders)
	rep.FullGroups = rep.TotalRollouts / RolloutsPerGroup
	rep.Remainder = rep.TotalRollouts % RolloutsPerGroup

	rollouts := decimal.NewFromInt(rep.TotalRollouts)
	per := decimal.NewFromInt(RolloutsPerGroup)
	rep.PreciseGroups = rollouts.DivRound(per, 4)

	ceilGroups := rep.FullGroups
	if rep.Remainder > 0 {
		ceilGroups++
	}
	rep.IngredientsPrecise = scaleRecipe(func(amount decimal.Decimal) decimal.Decimal {
		return amount.Mul(rollouts).DivRound(per, 2)
	})
	rep.IngredientsRoundedUp = scaleRecipe(func(amount decimal.Decimal) decimal.Decimal {
		return amount.Mul(decimal.NewFromInt(ceilGroups)).Round(2)
	})
	return rep
}

func scaleRecipe(f func(decimal.Decimal) decimal.Decimal) domain.Ingredients {
	return domain.Ingredients{
		RiceGrams:  f(recipe.RiceGrams),
		WaterMl:    f(recipe.WaterMl),
		VinegarMl:  f(recipe.VinegarMl),
		SugarGrams: f(recipe.SugarGrams),
		SaltGrams:  f(recipe.SaltGrams),
	}
}
