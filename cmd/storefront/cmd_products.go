package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/storefront-client-go/internal/api"
	"github.com/andreasstove999/storefront-client-go/internal/catalog"
)

var (
	productsCategory string
	productsWatch    bool
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, optionally polling for changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !productsWatch {
			products, err := fetchProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(products)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher := catalog.NewWatcher(catalogAPI, catalog.Config{
			Category:     productsCategory,
			PollInterval: cfg.CatalogPollInterval,
			Logger:       logger,
			OnSoldOut: func(p api.Product) {
				fmt.Printf("!! %s just sold out\n", p.Name)
			},
		})
		fmt.Println("Watching products (Ctrl-C to stop)...")
		return watcher.Run(ctx)
	},
}

func fetchProducts(ctx context.Context) ([]api.Product, error) {
	if productsCategory != "" {
		return catalogAPI.ProductsByCategory(ctx, productsCategory)
	}
	return catalogAPI.ListProducts(ctx)
}

func printProducts(products []api.Product) {
	if len(products) == 0 {
		fmt.Println("No products found.")
		return
	}
	for _, p := range products {
		stock := fmt.Sprintf("%d in stock", p.InStock)
		if p.InStock == 0 {
			stock = "out of stock"
		}
		fmt.Printf("%-14s %-22s $%-8.2f %s\n", p.ID, p.Name, p.Price, stock)
	}
}

func init() {
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "filter by category")
	productsCmd.Flags().BoolVar(&productsWatch, "watch", false, "poll and report stock changes")
}
