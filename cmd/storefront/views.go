package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopforge/storefront/internal/auth"
	"github.com/shopforge/storefront/internal/catalog"
	"github.com/shopforge/storefront/internal/cli"
)

func (a *app) loginView(ctx context.Context) view {
	a.term.Title("Log in")
	a.term.Println("(type 'register' to create an account, 'quit' to exit)")

	email := a.term.Prompt("Email")
	switch email {
	case "register":
		return viewRegister
	case "quit":
		return viewQuit
	}
	password := a.term.Prompt("Password")

	sess, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.term.Errorf("Login failed: %v", err)
		return viewLogin
	}
	a.term.Success("Welcome, %s!", sess.FullName)
	return viewHome
}

func (a *app) registerView(ctx context.Context) view {
	a.term.Title("Create account")

	fullName := a.term.Prompt("Full name")
	email := a.term.Prompt("Email")
	password := a.term.Prompt("Password")
	a.term.Printf("Password strength: %s\n", auth.ClassifyPassword(password))
	confirm := a.term.Prompt("Confirm password")

	sess, err := a.auth.Register(ctx, fullName, email, password, confirm)
	if err != nil {
		a.term.Errorf("Registration failed: %v", err)
		return viewRegister
	}
	a.term.Success("Account created. Welcome, %s!", sess.FullName)
	return viewHome
}

func (a *app) homeView(ctx context.Context) view {
	if sess, ok := a.store.Current(); ok {
		a.term.Title("Welcome to the store, " + sess.FullName + "!")
	}

	// Featured picks: the first few products, same as the landing page.
	if products, err := a.catalog.Products(ctx); err == nil {
		featured := products
		if len(featured) > 4 {
			featured = featured[:4]
		}
		for _, p := range featured {
			a.term.Printf("  %s — %s\n", p.Name, cli.Money(p.Price))
		}
	}

	return a.menu(map[string]view{
		"products": viewProducts,
		"cart":     viewCart,
		"orders":   viewOrders,
		"admin":    viewAdmin,
		"logout":   viewLogin,
		"quit":     viewQuit,
	}, "Go to (products/cart/orders/admin/logout/quit)")
}

func (a *app) menu(routes map[string]view, prompt string) view {
	for {
		choice := a.term.Prompt(prompt)
		if choice == "logout" {
			a.auth.Logout()
			a.term.Println("Logged out.")
			return viewLogin
		}
		if next, ok := routes[choice]; ok {
			return next
		}
		a.term.Warnf("Unknown choice %q", choice)
	}
}

func (a *app) productsView(ctx context.Context) view {
	data, err := a.catalog.Storefront(ctx)
	if err != nil {
		a.term.Errorf("Failed to load products: %v", err)
		return viewHome
	}

	search := ""
	var categoryID int64
	sortBy := catalog.SortByNewest

	for {
		shown := catalog.SortProducts(catalog.FilterProducts(data.Products, search, categoryID), sortBy)
		a.term.Title("Products")
		for _, p := range shown {
			stock := ""
			if p.StockQuantity == 0 || !p.IsActive {
				stock = "  (unavailable)"
			}
			a.term.Printf("  [%d] %-30s %s%s\n", p.ID, p.Name, cli.Money(p.Price), stock)
		}

		choice := a.term.Prompt("products> (add <id>, search <term>, category <id>, sort name|price|newest, back)")
		switch {
		case choice == "back":
			return viewHome
		case choice == "sort name":
			sortBy = catalog.SortByName
		case choice == "sort price":
			sortBy = catalog.SortByPrice
		case choice == "sort newest":
			sortBy = catalog.SortByNewest
		case len(choice) > 7 && choice[:7] == "search ":
			search = choice[7:]
		case choice == "search":
			search = ""
		case len(choice) > 9 && choice[:9] == "category ":
			categoryID, _ = strconv.ParseInt(choice[9:], 10, 64)
		case len(choice) > 4 && choice[:4] == "add ":
			id, err := strconv.ParseInt(choice[4:], 10, 64)
			if err != nil {
				a.term.Warnf("Not a product ID: %s", choice[4:])
				continue
			}
			if err := a.cart.Add(ctx, id, 1); err != nil {
				a.term.Errorf("Failed to add to cart: %v", err)
				continue
			}
			a.term.Success("Added to cart.")
		default:
			a.term.Warnf("Unknown command %q", choice)
		}
	}
}

func (a *app) cartView(ctx context.Context) view {
	if err := a.cart.Refresh(ctx); err != nil {
		a.term.Errorf("Failed to load cart: %v", err)
		return viewHome
	}

	for {
		snap, _ := a.cart.Snapshot()
		a.term.Title("Shopping cart")
		if len(snap.Items) == 0 {
			a.term.Println("  Your cart is empty.")
		}
		for _, item := range snap.Items {
			a.term.Printf("  [%d] %-30s %d x %s = %s\n",
				item.ID, item.ProductName, item.Quantity, cli.Money(item.UnitPrice), cli.Money(item.Subtotal))
		}
		a.term.Printf("  Items: %d  Total: %s\n", snap.ItemCount, cli.Money(snap.TotalPrice))

		choice := a.term.Prompt("cart> (qty <id> <n>, rm <id>, checkout, back)")
		switch {
		case choice == "back":
			// The snapshot is not persisted across views; the next visit
			// refetches from the server.
			a.cart.Discard()
			return viewHome
		case choice == "checkout":
			orderID, err := a.cart.Checkout(ctx)
			if err != nil {
				a.term.Errorf("Checkout failed: %v", err)
				continue
			}
			a.term.Success("Checkout successful! Order #%d has been created.", orderID)
			return viewOrders
		case len(choice) > 3 && choice[:3] == "rm ":
			id, err := strconv.ParseInt(choice[3:], 10, 64)
			if err != nil {
				a.term.Warnf("Not an item ID: %s", choice[3:])
				continue
			}
			if err := a.cart.Remove(ctx, id); err != nil {
				a.term.Errorf("Failed to remove item: %v", err)
			}
		case len(choice) > 4 && choice[:4] == "qty ":
			var id int64
			var qty int
			if _, err := fmt.Sscanf(choice[4:], "%d %d", &id, &qty); err != nil {
				a.term.Warnf("Usage: qty <item-id> <quantity>")
				continue
			}
			if err := a.cart.UpdateQuantity(ctx, id, qty); err != nil {
				a.term.Errorf("Failed to update quantity: %v", err)
			}
		default:
			a.term.Warnf("Unknown command %q", choice)
		}
	}
}

func (a *app) ordersView(ctx context.Context) view {
	page := 1
	for {
		orders, err := a.catalog.Orders(ctx, page)
		if err != nil {
			a.term.Errorf("Failed to load orders: %v", err)
			return viewHome
		}

		a.term.Title("Your orders")
		if len(orders.Orders) == 0 {
			a.term.Println("  No orders yet.")
		}
		for _, o := range orders.Orders {
			a.term.Printf("  Order #%d  %-10s %s  (%s)\n",
				o.ID, o.Status, cli.Money(o.TotalAmount), o.CreatedAt.Format("2006-01-02"))
		}
		a.term.Printf("  Page %d of %d (%d orders)\n", orders.Page, orders.Pages, orders.Total)

		choice := a.term.Prompt("orders> (next, prev, back)")
		switch choice {
		case "back":
			return viewHome
		case "next":
			if page < orders.Pages {
				page++
			}
		case "prev":
			if page > 1 {
				page--
			}
		default:
			a.term.Warnf("Unknown command %q", choice)
		}
	}
}

func (a *app) adminView(ctx context.Context) view {
	a.term.Title("Admin dashboard")
	a.term.Println("  Nothing to administer yet.")
	a.term.Prompt("Press enter to go back")
	return viewHome
}
