// Command storefront is an interactive terminal client for a remote
// commerce backend: browse the catalog, manage a cart, place orders.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopforge/storefront/internal/auth"
	"github.com/shopforge/storefront/internal/cart"
	"github.com/shopforge/storefront/internal/catalog"
	"github.com/shopforge/storefront/internal/cli"
	"github.com/shopforge/storefront/internal/config"
	"github.com/shopforge/storefront/internal/gateway"
	"github.com/shopforge/storefront/internal/guard"
	"github.com/shopforge/storefront/internal/logging"
	"github.com/shopforge/storefront/internal/metrics"
	"github.com/shopforge/storefront/internal/session"
)

type view string

const (
	viewLogin    view = "login"
	viewRegister view = "register"
	viewHome     view = "home"
	viewProducts view = "products"
	viewCart     view = "cart"
	viewOrders   view = "orders"
	viewAdmin    view = "admin"
	viewQuit     view = "quit"
)

// roleRequirements maps each protected view to the role it needs. Views not
// listed here are public. An empty role means any authenticated session.
var roleRequirements = map[view]string{
	viewHome:   "",
	viewCart:   "",
	viewOrders: "",
	viewAdmin:  "admin",
}

type app struct {
	term    *cli.Terminal
	log     *logging.Logger
	store   *session.Store
	guard   *guard.Guard
	auth    *auth.Controller
	cart    *cart.Controller
	catalog *catalog.Client

	// sessionLost is set by the gateway's invalidation callback and
	// consumed by the navigation loop.
	sessionLost atomic.Bool
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Service: "storefront", Level: cfg.Log.Level})
	term := cli.NewTerminal(os.Stdin, os.Stdout)

	store := session.NewStore(session.NewFileStore(cfg.Credentials.Path))
	if sess, ok := store.Restore(); ok {
		term.Printf("Welcome back, %s\n", sess.FullName)
	}

	a := &app{term: term, log: log, store: store}

	gw, err := gateway.New(gateway.Config{
		BaseURL:              cfg.API.BaseURL,
		Timeout:              time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Tokens:               store,
		OnSessionInvalidated: a.onSessionInvalidated,
		Logger:               log,
		Metrics:              metrics.New(prometheus.NewRegistry()),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a.guard = guard.New(store)
	a.auth = auth.New(gw, store, log)
	a.cart = cart.New(gw, term, log)
	a.catalog = catalog.New(gw)

	a.run(context.Background())
}

// onSessionInvalidated is the gateway's 401 hook: clear the session, then
// let the navigation loop send the user to login.
func (a *app) onSessionInvalidated() {
	a.store.Clear()
	a.sessionLost.Store(true)
	a.term.Warnf("Your session has expired. Please log in again.")
}

// run is the navigation loop. Every protected navigation re-runs the guard;
// decisions are never cached.
func (a *app) run(ctx context.Context) {
	current := viewHome
	for current != viewQuit {
		if a.sessionLost.Swap(false) {
			current = viewLogin
		}

		if required, protected := roleRequirements[current]; protected {
			switch a.guard.Decide(required) {
			case guard.RedirectToLogin:
				current = viewLogin
				continue
			case guard.RedirectToHome:
				a.term.Warnf("You do not have access to that page.")
				current = viewHome
				continue
			}
		}

		ctx := logging.WithTraceID(ctx, logging.NewTraceID())
		switch current {
		case viewLogin:
			current = a.loginView(ctx)
		case viewRegister:
			current = a.registerView(ctx)
		case viewHome:
			current = a.homeView(ctx)
		case viewProducts:
			current = a.productsView(ctx)
		case viewCart:
			current = a.cartView(ctx)
		case viewOrders:
			current = a.ordersView(ctx)
		case viewAdmin:
			current = a.adminView(ctx)
		default:
			current = viewHome
		}
	}
	a.term.Println("Goodbye!")
}
