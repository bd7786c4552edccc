package handlers_test_suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/rogerio-castellano/storefront/internal/cache"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	handler "github.com/rogerio-castellano/storefront/internal/http/handlers"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/pricing"
	"github.com/rogerio-castellano/storefront/internal/realtime"
)

// hookedCache runs onFirstGet once, before serving the first read.
type hookedCache struct {
	cache.ProductCache
	once       sync.Once
	onFirstGet func()
}

func (c *hookedCache) Get(ctx context.Context, id int) (models.Product, bool, error) {
	c.once.Do(c.onFirstGet)
	return c.ProductCache.Get(ctx, id)
}

func cartCleanup(t *testing.T) {
	t.Cleanup(func() {
		clearAllProducts()
		clearAllCarts()
	})
}

func quantities(c handler.CartResponse) map[int]int {
	q := map[int]int{}
	for _, l := range c.Lines {
		q[l.Product.Id] = l.Quantity
	}
	return q
}

func TestCart_Flow(t *testing.T) {
	cartCleanup(t)
	r := newRouter()
	phone := mustCreateProduct(r, handler.ProductRequest{Title: "Phone", Category: "Phones", OriginalPrice: 100, DiscountPercentage: 10})
	accessory := mustCreateProduct(r, handler.ProductRequest{Title: "Case", Category: "Accessories", OriginalPrice: 20})

	steps := []struct {
		name      string
		method    string
		path      string
		payload   any
		wantQty   map[int]int
		wantCount int
		wantOrder []int
	}{
		{"add phone", http.MethodPost, "/cart/items", handler.CartItemRequest{ProductID: phone}, map[int]int{phone: 1}, 1, []int{phone}},
		{"add phone again", http.MethodPost, "/cart/items", handler.CartItemRequest{ProductID: phone}, map[int]int{phone: 2}, 2, []int{phone}},
		{"add case", http.MethodPost, "/cart/items", handler.CartItemRequest{ProductID: accessory}, map[int]int{phone: 2, accessory: 1}, 3, []int{phone, accessory}},
		{"increase case", http.MethodPost, fmt.Sprintf("/cart/items/%d/increase", accessory), nil, map[int]int{phone: 2, accessory: 2}, 4, []int{phone, accessory}},
		{"decrease phone", http.MethodPost, fmt.Sprintf("/cart/items/%d/decrease", phone), nil, map[int]int{phone: 1, accessory: 2}, 3, []int{phone, accessory}},
		{"decrease at one is a no-op", http.MethodPost, fmt.Sprintf("/cart/items/%d/decrease", phone), nil, map[int]int{phone: 1, accessory: 2}, 3, []int{phone, accessory}},
		{"increase absent is a no-op", http.MethodPost, "/cart/items/999/increase", nil, map[int]int{phone: 1, accessory: 2}, 3, []int{phone, accessory}},
		{"remove phone", http.MethodDelete, fmt.Sprintf("/cart/items/%d", phone), nil, map[int]int{accessory: 2}, 2, []int{accessory}},
		{"remove absent is a no-op", http.MethodDelete, fmt.Sprintf("/cart/items/%d", phone), nil, map[int]int{accessory: 2}, 2, []int{accessory}},
		{"clear", http.MethodDelete, "/cart", nil, map[int]int{}, 0, []int{}},
	}

	for _, s := range steps {
		w := do(r, s.method, s.path, s.payload, userToken)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 OK, got %d", s.name, w.Code)
		}
		c, err := decodeCart(w)
		if err != nil {
			t.Fatalf("%s: decoding cart: %v", s.name, err)
		}
		if c.CartCount != s.wantCount {
			t.Errorf("%s: expected cart count %d, got %d", s.name, s.wantCount, c.CartCount)
		}
		got := quantities(c)
		if len(got) != len(s.wantQty) {
			t.Errorf("%s: expected %d lines, got %d", s.name, len(s.wantQty), len(got))
		}
		for id, q := range s.wantQty {
			if got[id] != q {
				t.Errorf("%s: product %d expected quantity %d, got %d", s.name, id, q, got[id])
			}
		}
		for i, id := range s.wantOrder {
			if i < len(c.Lines) && c.Lines[i].Product.Id != id {
				t.Errorf("%s: line %d expected product %d, got %d", s.name, i, id, c.Lines[i].Product.Id)
			}
		}
	}
}

func TestCart_Summary(t *testing.T) {
	cartCleanup(t)
	r := newRouter()

	cheap := mustCreateProduct(r, handler.ProductRequest{Title: "Cable", Category: "Accessories", OriginalPrice: 40})
	addToCart(r, cheap, userToken)

	w := do(r, http.MethodGet, "/cart/summary", nil, userToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var s pricing.Display
	if err := json.NewDecoder(w.Body).Decode(&s); err != nil {
		t.Fatalf("error decoding summary: %v", err)
	}
	want := pricing.Display{Subtotal: 40, Shipping: 5.99, Tax: 3.3, Discount: 0, GrandTotal: 49.29}
	if s != want {
		t.Errorf("expected %+v, got %+v", want, s)
	}

	// 40 + 20 (after 50% off) crosses the free shipping threshold
	half := mustCreateProduct(r, handler.ProductRequest{Title: "Charger", Category: "Accessories", OriginalPrice: 40, DiscountPercentage: 50})
	addToCart(r, half, userToken)

	c, err := decodeCart(do(r, http.MethodGet, "/cart", nil, userToken))
	if err != nil {
		t.Fatalf("error decoding cart: %v", err)
	}
	want = pricing.Display{Subtotal: 60, Shipping: 0, Tax: 4.95, Discount: 20, GrandTotal: 64.95}
	if c.Summary != want {
		t.Errorf("expected %+v, got %+v", want, c.Summary)
	}
}

func TestCart_AddErrors(t *testing.T) {
	cartCleanup(t)
	r := newRouter()
	soldOut := mustCreateProduct(r, handler.ProductRequest{Title: "Pixel 8", Category: "Phones", OriginalPrice: 699, InStock: boolPtr(false)})

	tests := []struct {
		name    string
		payload any
		bearer  string
		want    int
	}{
		{"out of stock", handler.CartItemRequest{ProductID: soldOut}, userToken, http.StatusConflict},
		{"unknown product", handler.CartItemRequest{ProductID: 999}, userToken, http.StatusNotFound},
		{"missing product id", map[string]string{}, userToken, http.StatusBadRequest},
		{"no token", handler.CartItemRequest{ProductID: soldOut}, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/cart/items", tt.payload, tt.bearer)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	c, _ := decodeCart(do(r, http.MethodGet, "/cart", nil, userToken))
	if c.CartCount != 0 {
		t.Errorf("expected empty cart after rejected adds, got count %d", c.CartCount)
	}
}

func TestCart_IsolatedPerUser(t *testing.T) {
	cartCleanup(t)
	r := newRouter()
	id := mustCreateProduct(r, handler.ProductRequest{Title: "Phone", Category: "Phones", OriginalPrice: 100})

	addToCart(r, id, userToken)
	addToCart(r, id, userToken)

	adminCart, err := decodeCart(do(r, http.MethodGet, "/cart", nil, token))
	if err != nil {
		t.Fatalf("error decoding cart: %v", err)
	}
	if adminCart.CartCount != 0 || len(adminCart.Lines) != 0 {
		t.Errorf("expected admin cart to be empty, got %+v", adminCart)
	}
}

func TestCart_ItemStatus(t *testing.T) {
	cartCleanup(t)
	r := newRouter()
	id := mustCreateProduct(r, handler.ProductRequest{Title: "Phone", Category: "Phones", OriginalPrice: 100})

	status := func() handler.CartItemStatus {
		w := do(r, http.MethodGet, fmt.Sprintf("/cart/items/%d", id), nil, userToken)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var s handler.CartItemStatus
		json.NewDecoder(w.Body).Decode(&s)
		return s
	}

	if s := status(); s.InCart || s.Quantity != 0 || s.InFavorites {
		t.Errorf("expected untouched product, got %+v", s)
	}

	addToCart(r, id, userToken)
	addToCart(r, id, userToken)
	do(r, http.MethodPost, fmt.Sprintf("/favorites/%d/toggle", id), nil, userToken)

	want := handler.CartItemStatus{ProductID: id, InCart: true, Quantity: 2, InFavorites: true}
	if s := status(); s != want {
		t.Errorf("expected %+v, got %+v", want, s)
	}
}

func TestCheckout(t *testing.T) {
	r := newRouter()

	t.Run("Empty cart is rejected", func(t *testing.T) {
		cartCleanup(t)
		if w := do(r, http.MethodPost, "/cart/checkout", nil, userToken); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Successful checkout clears the cart", func(t *testing.T) {
		cartCleanup(t)
		id := mustCreateProduct(r, handler.ProductRequest{Title: "Phone", Category: "Phones", OriginalPrice: 100, DiscountPercentage: 10})
		addToCart(r, id, userToken)
		addToCart(r, id, userToken)

		w := do(r, http.MethodPost, "/cart/checkout", nil, userToken)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d", w.Code)
		}
		var res handler.CheckoutResult
		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Fatalf("error decoding checkout: %v", err)
		}
		if len(res.OrderNumber) != 36 {
			t.Errorf("expected uuid order number, got %q", res.OrderNumber)
		}
		if len(res.Lines) != 1 || res.Lines[0].Quantity != 2 || res.Lines[0].LineTotal != 180 {
			t.Errorf("unexpected order lines %+v", res.Lines)
		}
		if res.Summary.GrandTotal != 194.85 {
			t.Errorf("expected grand total 194.85, got %v", res.Summary.GrandTotal)
		}

		c, _ := decodeCart(do(r, http.MethodGet, "/cart", nil, userToken))
		if c.CartCount != 0 {
			t.Errorf("expected cart to be cleared, got count %d", c.CartCount)
		}
	})

	t.Run("Out of stock line rejects the order", func(t *testing.T) {
		cartCleanup(t)
		inStock := mustCreateProduct(r, handler.ProductRequest{Title: "Case", Category: "Accessories", OriginalPrice: 20})
		gone := mustCreateProduct(r, handler.ProductRequest{Title: "Watch", Category: "Wearables", OriginalPrice: 300})
		addToCart(r, inStock, userToken)
		addToCart(r, gone, userToken)

		update := handler.ProductRequest{Title: "Watch", Category: "Wearables", OriginalPrice: 300, InStock: boolPtr(false)}
		if w := do(r, http.MethodPut, fmt.Sprintf("/products/%d", gone), update, token); w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK updating product, got %d", w.Code)
		}

		w := do(r, http.MethodPost, "/cart/checkout", nil, userToken)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409 Conflict, got %d", w.Code)
		}
		var res handler.OutOfStockResult
		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Fatalf("error decoding response: %v", err)
		}
		if len(res.ProductIDs) != 1 || res.ProductIDs[0] != gone {
			t.Errorf("expected out of stock ids [%d], got %v", gone, res.ProductIDs)
		}

		c, _ := decodeCart(do(r, http.MethodGet, "/cart", nil, userToken))
		if c.CartCount != 2 {
			t.Errorf("expected cart to be kept, got count %d", c.CartCount)
		}
	})

	t.Run("Products added during checkout stay in the cart", func(t *testing.T) {
		cartCleanup(t)
		registry := cart.NewRegistry(nil)
		handler.SetCartRegistry(registry)

		ordered := mustCreateProduct(r, handler.ProductRequest{Title: "Phone", Category: "Phones", OriginalPrice: 100})
		late := mustCreateProduct(r, handler.ProductRequest{Title: "Charger", Category: "Accessories", OriginalPrice: 25})
		addToCart(r, ordered, userToken)

		lateProduct, err := productRepo.GetByID(context.Background(), late)
		if err != nil {
			t.Fatalf("error reading product: %v", err)
		}
		hooked := &hookedCache{
			ProductCache: cache.NewMemoryProductCache(0),
			onFirstGet:   func() { registry.For(shopperID).AddToCart(lateProduct) },
		}
		handler.SetCatalogService(catalog.NewService(productRepo, hooked, realtime.NewHub(nil), nil))

		w := do(r, http.MethodPost, "/cart/checkout", nil, userToken)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d", w.Code)
		}
		var res handler.CheckoutResult
		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Fatalf("error decoding checkout: %v", err)
		}
		if len(res.Lines) != 1 || res.Lines[0].Product.Id != ordered {
			t.Errorf("expected only product %d in the order, got %+v", ordered, res.Lines)
		}

		c, _ := decodeCart(do(r, http.MethodGet, "/cart", nil, userToken))
		if got := quantities(c); len(got) != 1 || got[late] != 1 {
			t.Errorf("expected product %d to stay in the cart, got %v", late, got)
		}
	})
}
