package main

import (
	"net/http"
	"strconv"
)

const ordersPageSize = 5

func (srv *server) productsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, srv.store.productList())
}

func (srv *server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, srv.store.categoryList())
}

func (srv *server) ordersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	userID := userIDFrom(r.Context())
	srv.store.mu.Lock()
	all := append([]order(nil), srv.store.orders[userID]...)
	srv.store.mu.Unlock()

	total := len(all)
	pages := (total + ordersPageSize - 1) / ordersPageSize
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * ordersPageSize
	end := start + ordersPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": all[start:end],
		"total":  total,
		"page":   page,
		"pages":  pages,
	})
}
