// Command shopstub is a local, in-memory implementation of the commerce
// backend contract the storefront client consumes. It exists for
// development and integration testing; it is not a production server.
package main

import (
	"crypto/rand"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/shopforge/storefront/internal/logging"
)

type server struct {
	store       *memoryStore
	jwtSecret   []byte
	tokenTTL    time.Duration
	adminEmails map[string]struct{}
	log         *logging.Logger
}

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	flag.Parse()

	log := logging.New(logging.Options{Service: "shopstub", Level: os.Getenv("LOG_LEVEL")})

	secret := []byte(os.Getenv("SHOPSTUB_JWT_SECRET"))
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.WithError(err).Error("failed to generate JWT secret")
			os.Exit(1)
		}
		log.Warn("SHOPSTUB_JWT_SECRET not set; using a random per-process secret")
	}

	srv := &server{
		store:       newMemoryStore(),
		jwtSecret:   secret,
		tokenTTL:    24 * time.Hour,
		adminEmails: parseCSVSet(os.Getenv("SHOPSTUB_ADMIN_EMAILS")),
		log:         log,
	}

	log.WithField("addr", *addr).Info("shopstub listening")
	if err := http.ListenAndServe(*addr, srv.router()); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func (srv *server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(newRateLimiter(50, 100).middleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", srv.registerHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", srv.loginHandler).Methods(http.MethodPost)
	api.HandleFunc("/products", srv.productsHandler).Methods(http.MethodGet)
	api.HandleFunc("/categories", srv.categoriesHandler).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(srv.authMiddleware)
	protected.HandleFunc("/cart", srv.getCartHandler).Methods(http.MethodGet)
	protected.HandleFunc("/cart/items", srv.addCartItemHandler).Methods(http.MethodPost)
	protected.HandleFunc("/cart/items/{id}", srv.updateCartItemHandler).Methods(http.MethodPut)
	protected.HandleFunc("/cart/items/{id}", srv.deleteCartItemHandler).Methods(http.MethodDelete)
	protected.HandleFunc("/cart/checkout", srv.checkoutHandler).Methods(http.MethodPost)
	protected.HandleFunc("/orders", srv.ordersHandler).Methods(http.MethodGet)

	return r
}

func parseCSVSet(raw string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed == "" {
			continue
		}
		out[trimmed] = struct{}{}
	}
	return out
}
