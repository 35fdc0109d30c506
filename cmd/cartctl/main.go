package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jaylife/storefront-api/internal/cart"
	"github.com/jaylife/storefront-api/internal/cartsession"
	"github.com/jaylife/storefront-api/internal/sessionstore"
	"github.com/jaylife/storefront-api/pkg/cartapi"
	"github.com/jaylife/storefront-api/pkg/config"
	"github.com/jaylife/storefront-api/pkg/db"
	"github.com/jaylife/storefront-api/pkg/logger"
	"github.com/jaylife/storefront-api/pkg/redis"
)

// cartctl drives a cart session against a running gateway from the command
// line: it restores the client's session slot, applies one operation, and
// prints the reconciled cart.
func main() {
	logg := logger.New(logger.Options{ServiceName: "cartctl"})

	_ = godotenv.Load()

	apiURL := flag.String("api", "http://localhost:8080", "cart gateway base url")
	clientID := flag.String("client", "", "client id owning the session slot")
	action := flag.String("action", "show", "operation: show|add|update|remove|clear")
	merchandiseID := flag.String("merchandise", "", "merchandise id (for add)")
	lineID := flag.String("line", "", "cart line id (for update/remove)")
	quantity := flag.Int("quantity", 1, "quantity (for add/update)")
	flag.Parse()

	if *clientID == "" {
		fmt.Fprintln(os.Stderr, "missing -client")
		os.Exit(1)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cartctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.SessionStore.Backend == config.SessionBackendRedis {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	var dbClient *db.Client
	if cfg.SessionStore.Backend == config.SessionBackendDB {
		dbClient, err = db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer dbClient.Close()
	}

	store, err := sessionstore.New(cfg.SessionStore, redisClient, dbClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to build session store", err)
		os.Exit(1)
	}

	gateway, err := cartapi.NewClient(cartapi.Options{BaseURL: *apiURL})
	if err != nil {
		logg.Error(ctx, "failed to build gateway client", err)
		os.Exit(1)
	}

	session, err := cartsession.New(cartsession.Options{
		Gateway:  gateway,
		Store:    store,
		ClientID: *clientID,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to build session", err)
		os.Exit(1)
	}

	if result := <-session.Start(ctx); result.Err != nil {
		logg.Error(ctx, "failed to restore session", result.Err)
		os.Exit(1)
	}

	switch *action {
	case "show":
		// Start already restored the cart.
	case "add":
		if *merchandiseID == "" {
			fmt.Fprintln(os.Stderr, "missing -merchandise for add")
			os.Exit(1)
		}
		requireResult(ctx, logg, <-session.AddItem(ctx, *merchandiseID, *quantity))
	case "update":
		if *lineID == "" {
			fmt.Fprintln(os.Stderr, "missing -line for update")
			os.Exit(1)
		}
		requireResult(ctx, logg, <-session.UpdateItem(ctx, *lineID, *quantity))
	case "remove":
		if *lineID == "" {
			fmt.Fprintln(os.Stderr, "missing -line for remove")
			os.Exit(1)
		}
		requireResult(ctx, logg, <-session.RemoveItem(ctx, *lineID))
	case "clear":
		session.ClearCart(ctx)
	default:
		fmt.Fprintln(os.Stderr, "unknown -action value:", *action)
		os.Exit(1)
	}

	printCart(session.Cart())
}

func requireResult(ctx context.Context, logg *logger.Logger, result cartsession.Result) {
	if result.Err == nil {
		return
	}
	logg.Error(ctx, "cart operation failed", result.Err)
	os.Exit(1)
}

func printCart(c cart.Cart) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		fmt.Fprintf(os.Stderr, "encoding cart: %v\n", err)
		os.Exit(1)
	}
}
