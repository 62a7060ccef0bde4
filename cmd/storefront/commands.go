package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/swiftmart/storefront/internal/apierr"
	"github.com/swiftmart/storefront/internal/app"
	"github.com/swiftmart/storefront/internal/backend/store"
	"github.com/swiftmart/storefront/internal/session"
)

// printAPIError itemizes field errors when the backend reported a
// structured validation failure.
func printAPIError(err error) error {
	apiErr, ok := apierr.As(err)
	if !ok || len(apiErr.FieldErrors) == 0 {
		return err
	}
	for _, fe := range apiErr.FieldErrors {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
	}
	return err
}

func cmdRegister(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	address := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	resp, err := a.Store.CreateAccount(ctx, store.CreateAccountRequest{
		FirstName: *first,
		LastName:  *last,
		Email:     *address,
		Password:  *password,
	})
	if err != nil {
		return printAPIError(err)
	}
	if !resp.Success {
		return fmt.Errorf("registration failed: %s", resp.Message)
	}

	// Kick off email verification right after registration, matching the
	// register-then-verify flow.
	if _, err := a.Email.SendVerificationCode(ctx, *address); err != nil {
		fmt.Printf("Account created, but sending the verification code failed: %v\n", err)
		return nil
	}
	fmt.Printf("Account created. A verification code was sent to %s.\n", *address)
	return nil
}

func cmdVerifyEmail(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("verify-email", flag.ExitOnError)
	address := fs.String("email", "", "email address")
	code := fs.String("code", "", "verification code (omit to resend)")
	_ = fs.Parse(args)

	if *code == "" {
		resp, err := a.Email.SendVerificationCode(ctx, *address)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("failed to send code: %s", resp.Message)
		}
		fmt.Printf("Verification code sent to %s.\n", *address)
		return nil
	}

	resp, err := a.Email.VerifyCode(ctx, *address, *code)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("verification failed: %s", resp.Message)
	}

	if _, err := a.Store.ActivateAccount(ctx, *address); err != nil {
		return err
	}
	fmt.Println("Email verified and account activated. You can now log in.")
	return nil
}

func cmdLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	address := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	resp, err := a.Login(ctx, *address, *password)
	if err != nil {
		return printAPIError(err)
	}
	fmt.Printf("Logged in as %s (user %d).\n", resp.Email, resp.UserID)
	return nil
}

func cmdWhoami(a *app.App) error {
	current := a.Sessions.Current()
	if !current.LoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s (user %d).\n", current.UserEmail, current.UserID)
	if claims, err := session.TokenClaims(current.Token); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Printf("Session expires at %s.\n", claims.ExpiresAt.Local())
	}
	return nil
}

func cmdProducts(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	available := fs.Bool("available", false, "only products with stock")
	search := fs.String("search", "", "search by name")
	_ = fs.Parse(args)

	var (
		products []store.Product
		err      error
	)
	switch {
	case *search != "":
		products, err = a.Store.SearchProducts(ctx, *search)
	case *available:
		products, err = a.Store.AvailableProducts(ctx)
	default:
		products, err = a.Store.Products(ctx)
	}
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}
	for _, p := range products {
		fmt.Printf("%4d  %-30s  $%8.2f  stock %d\n", p.ID, p.Name, p.Price, p.StockQuantity)
	}
	return nil
}

func cmdProduct(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "product")
	if err != nil {
		return err
	}

	p, err := a.Store.ProductByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("Product not found.")
		return nil
	}

	fmt.Printf("%s\n  price $%.2f, stock %d\n", p.Name, p.Price, p.StockQuantity)
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	return nil
}

func cmdCheckout(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	productID := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	_ = fs.Parse(args)

	current := a.Sessions.Current()
	if !current.LoggedIn() {
		return fmt.Errorf("please log in first")
	}

	resp, err := a.Store.Checkout(ctx, store.CheckoutRequest{
		UserID:     current.UserID,
		OrderItems: []store.OrderItem{{ProductID: *productID, Quantity: *qty}},
	})
	if err != nil {
		return printAPIError(err)
	}
	if !resp.Success {
		return fmt.Errorf("checkout failed: %s", resp.Message)
	}

	if resp.Order != nil {
		fmt.Printf("Order %d placed, total $%.2f, status %s.\n",
			resp.Order.ID, resp.Order.TotalAmount, resp.Order.Status)
	}
	return nil
}

func cmdOrders(ctx context.Context, a *app.App) error {
	current := a.Sessions.Current()
	if !current.LoggedIn() {
		return fmt.Errorf("please log in first")
	}

	orders, err := a.Store.UserOrdersWithPayment(ctx, current.UserID)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Println("You haven't placed any orders yet.")
		return nil
	}
	for _, ow := range orders {
		if ow.Order == nil {
			continue
		}
		payment := "unpaid"
		if ow.Payment != nil {
			payment = ow.Payment.Status
		}
		fmt.Printf("%4d  %-24s  $%8.2f  %-12s  payment %s\n",
			ow.Order.ID, ow.Order.ProductName, ow.Order.TotalAmount, ow.Order.Status, payment)
	}
	return nil
}

func cmdOrder(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "order")
	if err != nil {
		return err
	}

	ow, err := a.Store.OrderWithPayment(ctx, id)
	if err != nil {
		return err
	}
	if ow.Order == nil {
		fmt.Println("Order not found.")
		return nil
	}

	fmt.Printf("Order %d: %s x%d, total $%.2f, status %s\n",
		ow.Order.ID, ow.Order.ProductName, ow.Order.Quantity, ow.Order.TotalAmount, ow.Order.Status)
	if ow.Payment != nil {
		fmt.Printf("Payment %d: %s, $%.2f\n", ow.Payment.PaymentID, ow.Payment.Status, ow.Payment.Amount)
	} else {
		fmt.Println("This order is awaiting payment.")
	}
	return nil
}

func cmdCancelOrder(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "order")
	if err != nil {
		return err
	}

	resp, err := a.Store.CancelOrder(ctx, id)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("cancellation failed: %s", resp.Message)
	}
	fmt.Println("Order cancelled. Any completed payment will be refunded.")
	return nil
}

func cmdPay(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "order")
	if err != nil {
		return err
	}

	resp, err := a.Store.RetryPayment(ctx, id)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("payment failed: %s", resp.Message)
	}
	fmt.Println("Payment successful. Your order has been confirmed.")
	return nil
}

func cmdRefund(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "order")
	if err != nil {
		return err
	}

	resp, err := a.Store.RefundPayment(ctx, id, "")
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("refund failed: %s", resp.Message)
	}
	fmt.Println("Refund request submitted.")
	return nil
}

func cmdDeliveries(ctx context.Context, a *app.App) error {
	deliveries, err := a.Delivery.MyDeliveries(ctx)
	if err != nil {
		return err
	}

	if len(deliveries) == 0 {
		fmt.Println("You have no deliveries.")
		return nil
	}
	for _, d := range deliveries {
		fmt.Printf("%4d  %-24s  x%-3d  %s\n", d.ID, d.ProductName, d.Quantity, d.DeliveryStatus)
	}
	return nil
}

func cmdDelivery(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "delivery")
	if err != nil {
		return err
	}

	d, err := a.Delivery.DeliveryByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Delivery %d: %s x%d\n", d.ID, d.ProductName, d.Quantity)
	fmt.Printf("  to:     %s\n", d.ToAddress)
	fmt.Printf("  status: %s\n", d.DeliveryStatus)
	if d.Cancellable() {
		fmt.Println("  (can still be cancelled)")
	}
	return nil
}

func cmdCancelDelivery(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "delivery")
	if err != nil {
		return err
	}

	if err := a.Delivery.Cancel(ctx, id); err != nil {
		return err
	}
	fmt.Println("Delivery cancelled.")
	return nil
}

func cmdAccount(ctx context.Context, a *app.App) error {
	account, err := a.Bank.MyAccount(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Account %s\n", account.AccountNumber)
	balance, err := a.Bank.Balance(ctx, account.AccountNumber)
	if err != nil {
		return err
	}
	fmt.Printf("Balance $%.2f\n", balance.Balance)
	return nil
}

func cmdTopup(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("topup", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "amount to add")
	_ = fs.Parse(args)

	if *amount <= 0 {
		return fmt.Errorf("please enter a valid amount")
	}

	account, err := a.Bank.MyAccount(ctx)
	if err != nil {
		return err
	}

	resp, err := a.Bank.AddMoney(ctx, account.AccountNumber, *amount)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("top-up failed: %s", resp.Message)
	}
	fmt.Printf("Added $%.2f to account %s (transaction %s).\n",
		*amount, account.AccountNumber, resp.TransactionID)
	return nil
}

func cmdAdminOrders(ctx context.Context, a *app.App) error {
	orders, err := a.Store.AllOrders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("%4d  user %-6d  $%8.2f  %s\n", o.ID, o.UserID, o.TotalAmount, o.Status)
	}
	return nil
}

func cmdAdminWarehouses(ctx context.Context, a *app.App) error {
	warehouses, err := a.Store.Warehouses(ctx)
	if err != nil {
		return err
	}
	for _, w := range warehouses {
		fmt.Printf("%4d  %-24s  %s\n", w.ID, w.Name, w.Location)
		for _, p := range w.Products {
			fmt.Printf("        %-30s  stock %d\n", p.Name, p.StockQuantity)
		}
	}
	return nil
}

func cmdAdminAudit(ctx context.Context, a *app.App) error {
	records, err := a.Store.OutTransactions(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%5d  %-8s  %-24s  %4d  order %-6d  %d -> %d\n",
			r.ID, r.OperationType, r.ProductName, r.Quantity, r.OrderID, r.StockBefore, r.StockAfter)
	}
	return nil
}

func cmdDLQ(ctx context.Context, a *app.App) error {
	alerts, err := a.Delivery.DLQAlerts(ctx)
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		fmt.Println("No dead-letter alerts.")
		return nil
	}
	for _, alert := range alerts {
		fmt.Printf("%4d  delivery %-6d  retries %d  %s\n",
			alert.ID, alert.DeliveryID, alert.RetryCount, alert.LastError)
	}
	return nil
}

func cmdDLQAction(ctx context.Context, a *app.App, args []string, action func(context.Context, int64) error, done string) error {
	id, err := idArg(args, "alert")
	if err != nil {
		return err
	}
	if err := action(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Alert %d %s.\n", id, done)
	return nil
}
