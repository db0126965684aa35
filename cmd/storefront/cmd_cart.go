package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/storefront-client-go/internal/api"
	"github.com/andreasstove999/storefront-client-go/internal/cartsync"
	"github.com/andreasstove999/storefront-client-go/internal/catalog"
)

var watchCategory string

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer := newSynchronizer(cartsync.Config{PollInterval: cfg.CartPollInterval})
		if err := syncer.Refresh(cmd.Context()); err != nil {
			return err
		}
		printSnapshot(syncer.Snapshot())
		return nil
	},
}

var cartWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the cart in sync with the server until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		syncer := newSynchronizer(cartsync.Config{
			PollInterval: cfg.CartPollInterval,
			Logger:       logger,
			OnOutOfStock: printOutOfStockNotice,
			OnRefresh: func(snap cartsync.Snapshot) {
				fmt.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
				printSnapshot(snap)
			},
		})

		fmt.Println("Watching cart (Ctrl-C to stop)...")
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return syncer.Run(ctx) })
		if watchCategory != "" {
			watcher := catalog.NewWatcher(catalogAPI, catalog.Config{
				Category:     watchCategory,
				PollInterval: cfg.CatalogPollInterval,
				Logger:       logger,
				OnSoldOut: func(p api.Product) {
					fmt.Printf("!! %s just sold out\n", p.Name)
				},
			})
			g.Go(func() error { return watcher.Run(ctx) })
		}
		return g.Wait()
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <productId> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity := 1
		if len(args) == 2 {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			quantity = q
		}
		cart, err := cartAPI.AddItem(cmd.Context(), args[0], quantity)
		if err != nil {
			return err
		}
		printCart(cart)
		return nil
	},
}

var cartAdjustCmd = &cobra.Command{
	Use:   "adjust <productId> <delta>",
	Short: "Adjust an item's quantity (clamped to available stock)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta %q", args[1])
		}
		syncer := newSynchronizer(cartsync.Config{Logger: logger})
		if err := syncer.Refresh(cmd.Context()); err != nil {
			return err
		}
		if err := syncer.AdjustQuantity(cmd.Context(), args[0], delta); err != nil {
			return err
		}
		printSnapshot(syncer.Snapshot())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <productId>",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer := newSynchronizer(cartsync.Config{Logger: logger})
		if err := syncer.Refresh(cmd.Context()); err != nil {
			return err
		}
		if err := syncer.RemoveItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		printSnapshot(syncer.Snapshot())
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer := newSynchronizer(cartsync.Config{
			Logger:       logger,
			OnOutOfStock: printOutOfStockNotice,
		})
		if err := syncer.Refresh(cmd.Context()); err != nil {
			return err
		}
		orderID, err := syncer.Checkout(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Order placed. Order ID: %s\n", orderID)
		return nil
	},
}

func newSynchronizer(c cartsync.Config) *cartsync.Synchronizer {
	return cartsync.New(cartAPI, c)
}

func init() {
	cartWatchCmd.Flags().StringVar(&watchCategory, "category", "", "also watch a product category")
	cartCmd.AddCommand(cartWatchCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartAdjustCmd)
	cartCmd.AddCommand(cartRemoveCmd)
}
