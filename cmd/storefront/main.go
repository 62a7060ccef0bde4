// Package main implements the storefront command-line client. Every
// subcommand is a thin view over the backend clients; session handling,
// error normalization, and polling live in the internal packages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/swiftmart/storefront/internal/app"
	"github.com/swiftmart/storefront/internal/backend/delivery"
	"github.com/swiftmart/storefront/internal/config"
	"github.com/swiftmart/storefront/internal/guard"
	"github.com/swiftmart/storefront/internal/poll"
	"github.com/swiftmart/storefront/internal/session"
)

const usage = `Usage: storefront <command> [flags]

Account:
  register        Create an account
  verify-email    Send or check an email verification code
  login           Log in and persist the session
  logout          Clear the session
  whoami          Show the current session

Shopping:
  products        List the catalog (-available, -search NAME)
  product ID      Show one product
  checkout        Create an order with payment (-product ID -qty N)
  orders          List my orders
  order ID        Show one order with payment
  cancel-order ID Cancel an order
  pay ID          Retry payment for an unpaid order
  refund ID       Request a refund

Delivery:
  deliveries          List my deliveries
  delivery ID         Show one delivery
  watch ID            Track a delivery until it reaches a final status
  cancel-delivery ID  Cancel a delivery

Bank:
  account         Show my bank account and balance
  topup -amount N Add money to my account

Admin:
  admin-orders      List all orders
  admin-warehouses  List warehouses and stock
  admin-audit       List outbound inventory transactions
  dlq               List dead-letter alerts
  dlq-resolve ID    Mark an alert as handled
  dlq-requeue ID    Requeue a failed notification
`

func main() {
	// Optional; development convenience only.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	log := newLogger()
	nav := newNavigator(command)

	a, err := newApp(nav, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, a, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("STOREFRONT_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func newApp(nav guard.Navigator, log zerolog.Logger) (*app.App, error) {
	cfgPath := os.Getenv("STOREFRONT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/endpoints.yaml"
	}
	cfg := config.LoadOrDefault(cfgPath)

	sessionPath, err := session.DefaultFilePath()
	if err != nil {
		return nil, err
	}

	return app.New(cfg, session.NewFileStore(sessionPath), nav, log)
}

func run(ctx context.Context, a *app.App, command string, args []string) error {
	switch command {
	case "register":
		return cmdRegister(ctx, a, args)
	case "verify-email":
		return cmdVerifyEmail(ctx, a, args)
	case "login":
		return cmdLogin(ctx, a, args)
	case "logout":
		a.Logout()
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return cmdWhoami(a)
	case "products":
		return cmdProducts(ctx, a, args)
	case "product":
		return cmdProduct(ctx, a, args)
	case "checkout":
		return cmdCheckout(ctx, a, args)
	case "orders":
		return cmdOrders(ctx, a)
	case "order":
		return cmdOrder(ctx, a, args)
	case "cancel-order":
		return cmdCancelOrder(ctx, a, args)
	case "pay":
		return cmdPay(ctx, a, args)
	case "refund":
		return cmdRefund(ctx, a, args)
	case "deliveries":
		return cmdDeliveries(ctx, a)
	case "delivery":
		return cmdDelivery(ctx, a, args)
	case "watch":
		return cmdWatch(ctx, a, args)
	case "cancel-delivery":
		return cmdCancelDelivery(ctx, a, args)
	case "account":
		return cmdAccount(ctx, a)
	case "topup":
		return cmdTopup(ctx, a, args)
	case "admin-orders":
		return cmdAdminOrders(ctx, a)
	case "admin-warehouses":
		return cmdAdminWarehouses(ctx, a)
	case "admin-audit":
		return cmdAdminAudit(ctx, a)
	case "dlq":
		return cmdDLQ(ctx, a)
	case "dlq-resolve":
		return cmdDLQAction(ctx, a, args, a.Delivery.ResolveDLQAlert, "resolved")
	case "dlq-requeue":
		return cmdDLQAction(ctx, a, args, a.Delivery.RequeueDLQAlert, "requeued")
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func idArg(args []string, what string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s id is required", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, args[0])
	}
	return id, nil
}

func cmdWatch(ctx context.Context, a *app.App, args []string) error {
	id, err := idArg(args, "delivery")
	if err != nil {
		return err
	}

	watcher, err := poll.NewWatcher(poll.Config{
		Fetch: func(ctx context.Context) (string, error) {
			d, err := a.Delivery.DeliveryByID(ctx, id)
			if err != nil {
				return "", err
			}
			return d.DeliveryStatus, nil
		},
		Terminal: delivery.TerminalStatuses,
		OnChange: func(status string) {
			fmt.Printf("%s  delivery %d: %s\n", time.Now().Format("15:04:05"), id, status)
		},
	})
	if err != nil {
		return err
	}

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	check := time.NewTicker(250 * time.Millisecond)
	defer check.Stop()
	for {
		select {
		case <-sig:
			return nil
		case <-check.C:
			if watcher.State() == poll.Stopped {
				fmt.Printf("Delivery %d reached final status %s.\n", id, watcher.LastStatus())
				return nil
			}
		}
	}
}
