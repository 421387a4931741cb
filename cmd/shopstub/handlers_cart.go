package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// cartItemJSON is the wire shape of one cart line. Subtotal and totals are
// always computed here; clients never do price math.
type cartItemJSON struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
	ImageURL    string  `json:"imageUrl"`
}

// renderCart builds the full cart response for a user. Caller must hold the
// store lock.
func (srv *server) renderCartLocked(userID string) map[string]interface{} {
	lines := srv.store.carts[userID]
	items := make([]cartItemJSON, 0, len(lines))
	itemCount := 0
	total := 0.0
	for _, line := range lines {
		p := srv.store.products[line.ProductID]
		subtotal := p.Price * float64(line.Quantity)
		items = append(items, cartItemJSON{
			ID:          line.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
			ImageURL:    p.ImageURL,
		})
		itemCount += line.Quantity
		total += subtotal
	}
	return map[string]interface{}{
		"items":      items,
		"itemCount":  itemCount,
		"totalPrice": total,
	}
}

func (srv *server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	srv.store.mu.Lock()
	resp := srv.renderCartLocked(userID)
	srv.store.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (srv *server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		jsonError(w, "quantity must be at least 1", http.StatusBadRequest)
		return
	}

	userID := userIDFrom(r.Context())
	srv.store.mu.Lock()
	defer srv.store.mu.Unlock()

	p, ok := srv.store.products[req.ProductID]
	if !ok {
		jsonError(w, "product not found", http.StatusNotFound)
		return
	}
	if !p.IsActive {
		jsonError(w, "this product is no longer available", http.StatusBadRequest)
		return
	}

	// Merge with an existing line for the same product.
	lines := srv.store.carts[userID]
	existing := -1
	have := 0
	for i, line := range lines {
		if line.ProductID == req.ProductID {
			existing = i
			have = line.Quantity
		}
	}
	if have+req.Quantity > p.StockQuantity {
		jsonError(w, "insufficient stock for this product", http.StatusBadRequest)
		return
	}

	if existing >= 0 {
		lines[existing].Quantity += req.Quantity
	} else {
		lines = append(lines, cartLine{
			ID:        srv.store.nextLineID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		})
		srv.store.nextLineID++
	}
	srv.store.carts[userID] = lines
	writeJSON(w, http.StatusOK, srv.renderCartLocked(userID))
}

func (srv *server) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		jsonError(w, "invalid item id", http.StatusBadRequest)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		jsonError(w, "quantity must be at least 1", http.StatusBadRequest)
		return
	}

	userID := userIDFrom(r.Context())
	srv.store.mu.Lock()
	defer srv.store.mu.Unlock()

	lines := srv.store.carts[userID]
	for i, line := range lines {
		if line.ID != itemID {
			continue
		}
		p := srv.store.products[line.ProductID]
		if req.Quantity > p.StockQuantity {
			jsonError(w, "insufficient stock for this product", http.StatusBadRequest)
			return
		}
		lines[i].Quantity = req.Quantity
		writeJSON(w, http.StatusOK, srv.renderCartLocked(userID))
		return
	}
	jsonError(w, "cart item not found", http.StatusNotFound)
}

func (srv *server) deleteCartItemHandler(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		jsonError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	userID := userIDFrom(r.Context())
	srv.store.mu.Lock()
	defer srv.store.mu.Unlock()

	lines := srv.store.carts[userID]
	for i, line := range lines {
		if line.ID == itemID {
			srv.store.carts[userID] = append(lines[:i], lines[i+1:]...)
			writeJSON(w, http.StatusOK, srv.renderCartLocked(userID))
			return
		}
	}
	jsonError(w, "cart item not found", http.StatusNotFound)
}

func (srv *server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	idemKey := r.Header.Get("X-Idempotency-Key")

	srv.store.mu.Lock()
	defer srv.store.mu.Unlock()

	if idemKey != "" {
		if orderID, seen := srv.store.idempotency[idemKey]; seen {
			writeJSON(w, http.StatusOK, map[string]interface{}{"orderId": orderID})
			return
		}
	}

	lines := srv.store.carts[userID]
	if len(lines) == 0 {
		jsonError(w, "your cart is empty", http.StatusBadRequest)
		return
	}

	items := make([]orderLine, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		p := srv.store.products[line.ProductID]
		if line.Quantity > p.StockQuantity {
			jsonError(w, "insufficient stock for "+p.Name, http.StatusConflict)
			return
		}
		items = append(items, orderLine{
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
		})
		total += p.Price * float64(line.Quantity)
	}
	for _, line := range lines {
		srv.store.products[line.ProductID].StockQuantity -= line.Quantity
	}

	o := order{
		ID:          srv.store.nextOrder,
		Status:      "pending",
		TotalAmount: total,
		CreatedAt:   time.Now(),
		Items:       items,
	}
	srv.store.nextOrder++
	srv.store.orders[userID] = append([]order{o}, srv.store.orders[userID]...)
	srv.store.carts[userID] = nil
	if idemKey != "" {
		srv.store.idempotency[idemKey] = o.ID
	}

	srv.log.WithFields(map[string]interface{}{
		"user_id":  userID,
		"order_id": o.ID,
	}).Info("order created")
	writeJSON(w, http.StatusOK, map[string]interface{}{"orderId": o.ID})
}
