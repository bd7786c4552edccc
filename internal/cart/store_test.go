package cart

import (
	"testing"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phone() models.Product {
	return models.Product{ID: 1, Title: "Galaxy S24 Ultra", OriginalPrice: 1299.99, DiscountPercentage: 18, InStock: true}
}

func headphones() models.Product {
	return models.Product{ID: 2, Title: "Noise Cancelling Headphones", OriginalPrice: 349.99, DiscountPercentage: 15, InStock: true}
}

func sumQuantities(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func TestAddToCart(t *testing.T) {
	t.Run("first add creates a line with quantity 1", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())

		require.Len(t, s.Lines(), 1)
		assert.Equal(t, 1, s.CartQuantity(1))
		assert.True(t, s.IsInCart(1))
	})

	t.Run("adding the same product increments instead of duplicating", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())
		s.AddToCart(phone())

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("lines keep insertion order", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(headphones())
		s.AddToCart(phone())
		s.AddToCart(headphones())

		lines := s.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 2, lines[0].ID)
		assert.Equal(t, 1, lines[1].ID)
	})
}

func TestRemoveFromCart(t *testing.T) {
	s := NewStore()
	s.AddToCart(phone())
	s.AddToCart(headphones())

	s.RemoveFromCart(1)
	once := s.Lines()
	s.RemoveFromCart(1)

	assert.Equal(t, once, s.Lines())
	assert.False(t, s.IsInCart(1))
	assert.Equal(t, 0, s.CartQuantity(1))

	s.RemoveFromCart(999)
	assert.Len(t, s.Lines(), 1)
}

func TestIncreaseQuantity(t *testing.T) {
	s := NewStore()
	s.AddToCart(phone())

	s.IncreaseQuantity(1)
	assert.Equal(t, 2, s.CartQuantity(1))

	s.IncreaseQuantity(42)
	assert.False(t, s.IsInCart(42))
	assert.Equal(t, 2, s.CartCount())
}

func TestDecreaseQuantity(t *testing.T) {
	t.Run("decrements above one", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())
		s.IncreaseQuantity(1)
		s.IncreaseQuantity(1)

		s.DecreaseQuantity(1)
		assert.Equal(t, 2, s.CartQuantity(1))
	})

	t.Run("quantity one is left in place", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())

		s.DecreaseQuantity(1)
		s.DecreaseQuantity(1)

		assert.True(t, s.IsInCart(1))
		assert.Equal(t, 1, s.CartQuantity(1))
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		s := NewStore()
		s.DecreaseQuantity(7)
		assert.Empty(t, s.Lines())
	})
}

func TestClearCart(t *testing.T) {
	s := NewStore()
	s.AddToCart(phone())
	s.AddToCart(headphones())
	s.MarkFavorite(phone())

	s.ClearCart()

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.CartCount())
	assert.Equal(t, 1, s.FavoritesCount(), "clearing the cart leaves favorites alone")
}

func TestRemoveOrdered(t *testing.T) {
	t.Run("ordered lines leave the cart", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())
		s.AddToCart(phone())
		ordered := s.Lines()

		s.RemoveOrdered(ordered)

		assert.Empty(t, s.Lines())
	})

	t.Run("products added after the read stay in the cart", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())
		ordered := s.Lines()
		s.AddToCart(headphones())

		s.RemoveOrdered(ordered)

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].ID)
		assert.False(t, s.IsInCart(1))
	})

	t.Run("quantity added after the read is kept", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())
		ordered := s.Lines()
		s.AddToCart(phone())
		s.AddToCart(phone())

		s.RemoveOrdered(ordered)

		assert.Equal(t, 2, s.CartQuantity(1))
	})

	t.Run("lines removed meanwhile are ignored", func(t *testing.T) {
		s := NewStore()
		s.AddToCart(phone())
		s.AddToCart(headphones())
		ordered := s.Lines()
		s.RemoveFromCart(1)

		s.RemoveOrdered(ordered)

		assert.Empty(t, s.Lines())
		assert.Equal(t, 0, s.CartCount())
	})
}

func TestFavorites(t *testing.T) {
	t.Run("add toggles membership", func(t *testing.T) {
		s := NewStore()

		assert.True(t, s.AddToFavorites(phone()))
		assert.True(t, s.IsInFavorites(1))

		assert.False(t, s.AddToFavorites(phone()))
		assert.False(t, s.IsInFavorites(1))
		assert.Equal(t, 0, s.FavoritesCount())
	})

	t.Run("toggle twice restores original state", func(t *testing.T) {
		s := NewStore()
		s.MarkFavorite(headphones())
		before := s.Favorites()

		s.ToggleFavorite(phone())
		s.ToggleFavorite(phone())

		assert.Equal(t, before, s.Favorites())
	})

	t.Run("mark is idempotent", func(t *testing.T) {
		s := NewStore()
		s.MarkFavorite(phone())
		s.MarkFavorite(phone())

		assert.Equal(t, 1, s.FavoritesCount())
	})

	t.Run("remove is unconditional", func(t *testing.T) {
		s := NewStore()
		s.MarkFavorite(phone())

		s.RemoveFromFavorites(1)
		s.RemoveFromFavorites(1)
		s.RemoveFromFavorites(99)

		assert.False(t, s.IsInFavorites(1))
		assert.Equal(t, 0, s.FavoritesCount())
	})

	t.Run("favorites do not touch the cart", func(t *testing.T) {
		s := NewStore()
		s.AddToFavorites(phone())
		assert.False(t, s.IsInCart(1))
		assert.Equal(t, 0, s.CartCount())
	})
}

func TestCartCountNeverDrifts(t *testing.T) {
	s := NewStore()
	products := []models.Product{
		phone(),
		headphones(),
		{ID: 3, Title: "Smart Watch", OriginalPrice: 199.99, DiscountPercentage: 10},
	}

	check := func() {
		t.Helper()
		assert.Equal(t, sumQuantities(s.Lines()), s.CartCount())
	}

	for _, p := range products {
		s.AddToCart(p)
		check()
		s.IncreaseQuantity(p.ID)
		check()
	}
	s.DecreaseQuantity(2)
	check()
	s.DecreaseQuantity(2)
	check()
	s.RemoveFromCart(3)
	check()
	s.AddToCart(products[0])
	check()

	assert.Equal(t, 4, s.CartCount())
}

func TestEndToEndScenario(t *testing.T) {
	s := NewStore()

	s.AddToCart(models.Product{ID: 1, OriginalPrice: 1299.99, DiscountPercentage: 18})
	assert.Equal(t, 1, s.CartCount())
	assert.InDelta(t, 1065.99, pricing.Subtotal(s.Lines()).InexactFloat64(), 0.01)

	s.IncreaseQuantity(1)
	assert.Equal(t, 2, s.CartCount())
	assert.InDelta(t, 2131.98, pricing.Subtotal(s.Lines()).InexactFloat64(), 0.01)

	s.RemoveFromCart(1)
	assert.Empty(t, s.Lines())
	assert.True(t, pricing.Subtotal(s.Lines()).IsZero())
}

func TestSubscribe(t *testing.T) {
	s := NewStore()

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.AddToCart(phone())
	s.DecreaseQuantity(1) // no change, no notification
	s.RemoveFromCart(99)  // no change, no notification
	s.ToggleFavorite(headphones())

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].CartCount)
	assert.Equal(t, 1, got[1].FavoritesCount)

	unsubscribe()
	s.ClearCart()
	assert.Len(t, got, 2)
}

func TestLinesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AddToCart(phone())

	lines := s.Lines()
	lines[0].Quantity = 50

	assert.Equal(t, 1, s.CartQuantity(1))
}
