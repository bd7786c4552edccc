// Package cart holds the cart and favorites state for one shopper.
package cart

import (
	"slices"
	"sync"

	"github.com/rogerio-castellano/storefront/internal/models"
)

// Snapshot is a copy of a Store's state at one point in time.
type Snapshot struct {
	Lines          []models.CartLine `json:"lines"`
	Favorites      []models.Product  `json:"favorites"`
	CartCount      int               `json:"cart_count"`
	FavoritesCount int               `json:"favorites_count"`
}

// Store owns the cart lines and the favorites set of a single shopper.
//
// Mutations never fail: unknown product ids are no-ops and reads return
// zero values. Lines keep insertion order; a product id appears in at most
// one line and at most once in favorites.
type Store struct {
	mu        sync.Mutex
	lines     []models.CartLine
	favorites []models.Product

	listeners map[int]func(Snapshot)
	nextSub   int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]func(Snapshot))}
}

// AddToCart increments the line for p.ID, or appends a new line with quantity 1.
func (s *Store) AddToCart(p models.Product) {
	s.mutate(func() bool {
		if i := s.lineIndex(p.ID); i >= 0 {
			s.lines[i].Quantity++
			return true
		}
		s.lines = append(s.lines, models.CartLine{Product: p, Quantity: 1})
		return true
	})
}

func (s *Store) RemoveFromCart(productID int) {
	s.mutate(func() bool {
		i := s.lineIndex(productID)
		if i < 0 {
			return false
		}
		s.lines = slices.Delete(s.lines, i, i+1)
		return true
	})
}

func (s *Store) IncreaseQuantity(productID int) {
	s.mutate(func() bool {
		i := s.lineIndex(productID)
		if i < 0 {
			return false
		}
		s.lines[i].Quantity++
		return true
	})
}

// DecreaseQuantity decrements only when the quantity is above 1. A line at
// quantity 1 is left untouched; use RemoveFromCart to drop it.
func (s *Store) DecreaseQuantity(productID int) {
	s.mutate(func() bool {
		i := s.lineIndex(productID)
		if i < 0 || s.lines[i].Quantity <= 1 {
			return false
		}
		s.lines[i].Quantity--
		return true
	})
}

func (s *Store) ClearCart() {
	s.mutate(func() bool {
		if len(s.lines) == 0 {
			return false
		}
		s.lines = nil
		return true
	})
}

// RemoveOrdered takes the ordered quantities out of the cart. A line whose
// quantity grew after ordered was read keeps the difference; lines added
// since then are left alone.
func (s *Store) RemoveOrdered(ordered []models.CartLine) {
	s.mutate(func() bool {
		changed := false
		for _, o := range ordered {
			i := s.lineIndex(o.ID)
			if i < 0 {
				continue
			}
			changed = true
			if s.lines[i].Quantity <= o.Quantity {
				s.lines = slices.Delete(s.lines, i, i+1)
				continue
			}
			s.lines[i].Quantity -= o.Quantity
		}
		return changed
	})
}

// AddToFavorites toggles membership: a product that is already a favorite
// is removed. It reports whether p is a favorite afterwards.
func (s *Store) AddToFavorites(p models.Product) bool {
	return s.ToggleFavorite(p)
}

// ToggleFavorite flips the favorite state of p and reports the new state.
func (s *Store) ToggleFavorite(p models.Product) bool {
	var now bool
	s.mutate(func() bool {
		if i := s.favoriteIndex(p.ID); i >= 0 {
			s.favorites = slices.Delete(s.favorites, i, i+1)
			return true
		}
		s.favorites = append(s.favorites, p)
		now = true
		return true
	})
	return now
}

// MarkFavorite adds p to favorites if it is not there yet.
func (s *Store) MarkFavorite(p models.Product) {
	s.mutate(func() bool {
		if s.favoriteIndex(p.ID) >= 0 {
			return false
		}
		s.favorites = append(s.favorites, p)
		return true
	})
}

func (s *Store) RemoveFromFavorites(productID int) {
	s.mutate(func() bool {
		i := s.favoriteIndex(productID)
		if i < 0 {
			return false
		}
		s.favorites = slices.Delete(s.favorites, i, i+1)
		return true
	})
}

func (s *Store) IsInFavorites(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIndex(productID) >= 0
}

func (s *Store) IsInCart(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineIndex(productID) >= 0
}

// CartQuantity returns the quantity of productID in the cart, or 0.
func (s *Store) CartQuantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.lineIndex(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// CartCount is the sum of all line quantities.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCount()
}

func (s *Store) FavoritesCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Favorites returns a copy of the favorites in insertion order.
func (s *Store) Favorites() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn to receive a Snapshot after every mutation that
// changed state. Listeners run synchronously on the mutating goroutine and
// must not call back into the Store.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) mutate(apply func() bool) {
	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshot()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Lines:          slices.Clone(s.lines),
		Favorites:      slices.Clone(s.favorites),
		CartCount:      s.cartCount(),
		FavoritesCount: len(s.favorites),
	}
}

func (s *Store) cartCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) lineIndex(productID int) int {
	return slices.IndexFunc(s.lines, func(l models.CartLine) bool { return l.ID == productID })
}

func (s *Store) favoriteIndex(productID int) int {
	return slices.IndexFunc(s.favorites, func(p models.Product) bool { return p.ID == productID })
}
