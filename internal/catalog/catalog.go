// Package catalog reads the backend's product, category and order
// collections. These are read-only collaborators of the cart core: nothing
// here mutates server state.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopforge/storefront/internal/gateway"
)

// Product mirrors the backend's product shape.
type Product struct {
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

// Category mirrors the backend's category shape.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Order is a placed order as reported by the backend.
type Order struct {
	ID          int64       `json:"id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
	Items       []OrderItem `json:"items"`
}

// OrderPage is one page of the order history.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}

// StorefrontData bundles the two collections the product view needs.
type StorefrontData struct {
	Products   []Product
	Categories []Category
}

// Client reads catalog data through the gateway.
type Client struct {
	gw *gateway.Client
}

// New creates a catalog client.
func New(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Products fetches the full product list.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.gw.Get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.gw.Get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Orders fetches one page of the caller's order history.
func (c *Client) Orders(ctx context.Context, page int) (OrderPage, error) {
	if page < 1 {
		page = 1
	}
	var out OrderPage
	if err := c.gw.Get(ctx, fmt.Sprintf("/orders?page=%d", page), &out); err != nil {
		return OrderPage{}, err
	}
	return out, nil
}

// Storefront fetches products and categories concurrently; the product view
// needs both before it can render.
func (c *Client) Storefront(ctx context.Context) (StorefrontData, error) {
	var data StorefrontData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := c.Products(ctx)
		if err != nil {
			return err
		}
		data.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := c.Categories(ctx)
		if err != nil {
			return err
		}
		data.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return StorefrontData{}, err
	}
	return data, nil
}

// SortBy selects a product ordering.
type SortBy string

const (
	SortByName   SortBy = "name"
	SortByPrice  SortBy = "price"
	SortByNewest SortBy = "newest"
)

// FilterProducts keeps products matching the search term (name or
// description, case-insensitive) and the category. A zero categoryID means
// all categories. Pure list transform; no network.
func FilterProducts(products []Product, search string, categoryID int64) []Product {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts returns a sorted copy of products.
func SortProducts(products []Product, by SortBy) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	switch by {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortByNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}
