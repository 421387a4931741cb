package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopforge/storefront/internal/gateway"
)

func fixtureProducts() []Product {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Product{
		{ID: 1, Name: "Bandage", Description: "Elastic wrap", Price: 6.75, CategoryID: 2, CreatedAt: base.Add(24 * time.Hour)},
		{ID: 2, Name: "Thermometer", Description: "Digital oral", Price: 12.99, CategoryID: 1, CreatedAt: base.Add(48 * time.Hour)},
		{ID: 3, Name: "Aid Kit", Description: "Household first aid", Price: 24.00, CategoryID: 2, CreatedAt: base},
	}
}

// =============================================================================
// Pure list transforms
// =============================================================================

func TestFilterProducts(t *testing.T) {
	products := fixtureProducts()

	byName := FilterProducts(products, "thermo", 0)
	if len(byName) != 1 || byName[0].ID != 2 {
		t.Fatalf("search filter got %v", byName)
	}

	byDescription := FilterProducts(products, "first aid", 0)
	if len(byDescription) != 1 || byDescription[0].ID != 3 {
		t.Fatalf("description filter got %v", byDescription)
	}

	byCategory := FilterProducts(products, "", 2)
	if len(byCategory) != 2 {
		t.Fatalf("category filter got %d products, want 2", len(byCategory))
	}

	all := FilterProducts(products, "", 0)
	if len(all) != 3 {
		t.Fatalf("no filter got %d products, want 3", len(all))
	}
}

func TestSortProducts(t *testing.T) {
	products := fixtureProducts()

	byName := SortProducts(products, SortByName)
	if byName[0].Name != "Aid Kit" {
		t.Errorf("name sort first = %s", byName[0].Name)
	}

	byPrice := SortProducts(products, SortByPrice)
	if byPrice[0].ID != 1 || byPrice[2].ID != 3 {
		t.Errorf("price sort order = %v", []int64{byPrice[0].ID, byPrice[1].ID, byPrice[2].ID})
	}

	byNewest := SortProducts(products, SortByNewest)
	if byNewest[0].ID != 2 {
		t.Errorf("newest sort first = %d, want 2", byNewest[0].ID)
	}

	// Input slice is untouched.
	if products[0].ID != 1 {
		t.Error("SortProducts mutated its input")
	}
}

// =============================================================================
// Backend reads
// =============================================================================

func TestStorefront_FetchesBothCollections(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Bandage","price":6.75}]`))
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"First Aid"},{"id":2,"name":"Mobility"}]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gw, err := gateway.New(gateway.Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	data, err := New(gw).Storefront(context.Background())
	if err != nil {
		t.Fatalf("Storefront() error = %v", err)
	}
	if len(data.Products) != 1 || len(data.Categories) != 2 {
		t.Errorf("got %d products, %d categories", len(data.Products), len(data.Categories))
	}
}

func TestOrders_PageParameter(t *testing.T) {
	var gotPage string
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		w.Write([]byte(`{"orders":[],"total":0,"page":2,"pages":3}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gw, err := gateway.New(gateway.Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	page, err := New(gw).Orders(context.Background(), 2)
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if gotPage != "2" {
		t.Errorf("page query = %q, want 2", gotPage)
	}
	if page.Pages != 3 {
		t.Errorf("pages = %d, want 3", page.Pages)
	}

	if _, err := New(gw).Orders(context.Background(), -1); err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if gotPage != "1" {
		t.Errorf("negative page should clamp to 1, got %q", gotPage)
	}
}
