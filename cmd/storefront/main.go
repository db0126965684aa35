package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-client-go/internal/api"
	"github.com/andreasstove999/storefront-client-go/internal/config"
	"github.com/andreasstove999/storefront-client-go/internal/logging"
	"github.com/andreasstove999/storefront-client-go/internal/session"
)

var (
	// Global flags
	cfgPath string
	apiURL  string
	verbose bool

	// Shared state built in PersistentPreRunE
	cfg        config.Config
	logger     *zap.Logger
	sess       session.Store
	cartAPI    *api.CartClient
	catalogAPI *api.CatalogClient
	orderAPI   *api.OrderClient
	authAPI    *api.AuthClient
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Terminal client for the storefront API",
	Long: `storefront is a terminal client for a remote storefront REST API.

It browses products, manages a shopping cart that is kept in sync with the
server by polling, and places orders. Run the bundled stub-api server for a
local demo backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}

		fileStore, err := session.NewFileStore(cfg.SessionFile)
		if err != nil {
			return err
		}
		sess = fileStore

		base := api.NewClient("storefront-api", cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, sess)
		cartAPI = api.NewCartClient(base)
		catalogAPI = api.NewCatalogClient(base)
		orderAPI = api.NewOrderClient(base)
		authAPI = api.NewAuthClient(base)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "storefront API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
