package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show order history",
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, err := orderAPI.ListOrders(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("Order #%s  $%.2f  %s  %s\n", o.OrderID, o.TotalAmount, o.Status, o.CreatedAt.Format("2006-01-02"))
			for _, it := range o.Items {
				fmt.Printf("  %s  $%.2f x %d\n", it.Name, it.Price, it.Quantity)
			}
		}
		return nil
	},
}
