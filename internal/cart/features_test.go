package cart_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/cucumber/godog"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/pricing"
)

type cartTestContext struct {
	store *cart.Store
}

func (c *cartTestContext) anEmptyCart() error {
	c.store = cart.NewStore()
	return nil
}

func productOf(id int, price float64, discount int) models.Product {
	return models.Product{ID: id, Title: fmt.Sprintf("product-%d", id), OriginalPrice: price, DiscountPercentage: discount, InStock: true}
}

func (c *cartTestContext) iAddProductToTheCart(id int, price float64, discount int) error {
	c.store.AddToCart(productOf(id, price, discount))
	return nil
}

func (c *cartTestContext) iFavoriteProduct(id int, price float64, discount int) error {
	c.store.AddToFavorites(productOf(id, price, discount))
	return nil
}

func (c *cartTestContext) iIncreaseTheQuantityOfProduct(id int) error {
	c.store.IncreaseQuantity(id)
	return nil
}

func (c *cartTestContext) iDecreaseTheQuantityOfProduct(id int) error {
	c.store.DecreaseQuantity(id)
	return nil
}

func (c *cartTestContext) iRemoveProductFromTheCart(id int) error {
	c.store.RemoveFromCart(id)
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.store.Lines()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) productHasQuantity(id, qty int) error {
	if got := c.store.CartQuantity(id); got != qty {
		return fmt.Errorf("expected quantity %d for product %d, got %d", qty, id, got)
	}
	return nil
}

func (c *cartTestContext) theCartCountIs(n int) error {
	if got := c.store.CartCount(); got != n {
		return fmt.Errorf("expected cart count %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) productIsAFavorite(id int) error {
	if !c.store.IsInFavorites(id) {
		return fmt.Errorf("expected product %d to be a favorite", id)
	}
	return nil
}

func (c *cartTestContext) productIsNotAFavorite(id int) error {
	if c.store.IsInFavorites(id) {
		return fmt.Errorf("expected product %d not to be a favorite", id)
	}
	return nil
}

func (c *cartTestContext) theFavoritesCountIs(n int) error {
	if got := c.store.FavoritesCount(); got != n {
		return fmt.Errorf("expected favorites count %d, got %d", n, got)
	}
	return nil
}

func within(name string, want, got float64) error {
	if math.Abs(want-got) > 0.01 {
		return fmt.Errorf("expected %s %.2f, got %.4f", name, want, got)
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want float64) error {
	return within("subtotal", want, pricing.Subtotal(c.store.Lines()).InexactFloat64())
}

func (c *cartTestContext) theShippingIs(want float64) error {
	return within("shipping", want, pricing.Summarize(c.store.Lines()).Shipping.InexactFloat64())
}

func (c *cartTestContext) theDiscountAmountIs(want float64) error {
	return within("discount", want, pricing.DiscountAmount(c.store.Lines()).InexactFloat64())
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.store = cart.NewStore()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	ctx.Step(`^I add product (\d+) priced (\d+\.\d+) with (\d+)% off to the cart$`, tc.iAddProductToTheCart)
	ctx.Step(`^I favorite product (\d+) priced (\d+\.\d+) with (\d+)% off$`, tc.iFavoriteProduct)
	ctx.Step(`^I increase the quantity of product (\d+)$`, tc.iIncreaseTheQuantityOfProduct)
	ctx.Step(`^I decrease the quantity of product (\d+)$`, tc.iDecreaseTheQuantityOfProduct)
	ctx.Step(`^I remove product (\d+) from the cart$`, tc.iRemoveProductFromTheCart)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^product (\d+) has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^the cart count is (\d+)$`, tc.theCartCountIs)
	ctx.Step(`^product (\d+) is a favorite$`, tc.productIsAFavorite)
	ctx.Step(`^product (\d+) is not a favorite$`, tc.productIsNotAFavorite)
	ctx.Step(`^the favorites count is (\d+)$`, tc.theFavoritesCountIs)
	ctx.Step(`^the subtotal is (\d+\.\d+)$`, tc.theSubtotalIs)
	ctx.Step(`^the shipping is (\d+\.\d+)$`, tc.theShippingIs)
	ctx.Step(`^the discount amount is (\d+\.\d+)$`, tc.theDiscountAmountIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
