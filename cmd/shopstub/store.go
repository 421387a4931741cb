package main

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// user is a registered account. Passwords are stored as bcrypt hashes.
type user struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash []byte
	Roles        []string
}

// product is a catalog entry.
type product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	ImageURL      string    `json:"imageUrl"`
	CategoryID    int64     `json:"categoryId"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// cartLine is one cart row. Unit price is snapshotted when the line is
// created; subtotal and cart totals are always recomputed server-side.
type cartLine struct {
	ID        int64
	ProductID int64
	Quantity  int
}

type orderLine struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type order struct {
	ID          int64       `json:"id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
	Items       []orderLine `json:"items"`
}

// memoryStore holds all stub backend state.
type memoryStore struct {
	mu sync.Mutex

	usersByEmail map[string]*user
	products     map[int64]*product
	categories   []category

	carts      map[string][]cartLine // keyed by user ID
	orders     map[string][]order
	nextLineID int64
	nextOrder  int64

	// checkout idempotency: key -> order ID already created for it
	idempotency map[string]int64
}

func newMemoryStore() *memoryStore {
	s := &memoryStore{
		usersByEmail: make(map[string]*user),
		products:     make(map[int64]*product),
		carts:        make(map[string][]cartLine),
		orders:       make(map[string][]order),
		idempotency:  make(map[string]int64),
		nextLineID:   1,
		nextOrder:    1000,
	}
	s.seed()
	return s
}

func (s *memoryStore) seed() {
	s.categories = []category{
		{ID: 1, Name: "Diagnostics"},
		{ID: 2, Name: "First Aid"},
		{ID: 3, Name: "Mobility"},
	}
	now := time.Now()
	seedProducts := []*product{
		{ID: 1, Name: "Digital Thermometer", Description: "Fast oral thermometer", Price: 12.99, StockQuantity: 40, CategoryID: 1, IsActive: true, CreatedAt: now.Add(-96 * time.Hour)},
		{ID: 2, Name: "Blood Pressure Monitor", Description: "Upper-arm cuff monitor", Price: 49.50, StockQuantity: 15, CategoryID: 1, IsActive: true, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: 3, Name: "First Aid Kit", Description: "120-piece household kit", Price: 24.00, StockQuantity: 60, CategoryID: 2, IsActive: true, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: 4, Name: "Elastic Bandage", Description: "Reusable compression wrap", Price: 6.75, StockQuantity: 200, CategoryID: 2, IsActive: true, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: 5, Name: "Folding Cane", Description: "Adjustable aluminium cane", Price: 18.40, StockQuantity: 0, CategoryID: 3, IsActive: true, CreatedAt: now.Add(-12 * time.Hour)},
		{ID: 6, Name: "Retired Stethoscope", Description: "No longer sold", Price: 30.00, StockQuantity: 5, CategoryID: 1, IsActive: false, CreatedAt: now.Add(-240 * time.Hour)},
	}
	for _, p := range seedProducts {
		s.products[p.ID] = p
	}
}

func (s *memoryStore) createUser(email, fullName string, passwordHash []byte, roles []string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[email]; exists {
		return nil, false
	}
	u := &user{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Roles:        roles,
	}
	s.usersByEmail[email] = u
	return u, true
}

func (s *memoryStore) findUser(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByEmail[email]
	return u, ok
}

func (s *memoryStore) productList() []*product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) categoryList() []category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]category(nil), s.categories...)
}
