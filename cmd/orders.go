/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/shopvine/storefront/types"
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		orders, err := a.Gateway.MyOrders(cmd.Context(), a.State.Token())
		if err != nil {
			return err
		}
		return printJSON(orders)
	},
}

var orderPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place an order from the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}

		req := types.OrderRequest{
			Address:       orderAddress,
			City:          orderCity,
			PostalCode:    orderPostalCode,
			Phone:         orderPhone,
			PaymentMethod: orderPaymentMethod,
		}
		order, err := a.Gateway.PlaceOrder(cmd.Context(), a.State.Token(), req)
		if err != nil {
			return err
		}

		// The backend consumed the cart; bring the mirror in line.
		if err := a.Cart.Refresh(cmd.Context()); err != nil {
			a.State.SetCartCount(0)
		}
		fmt.Printf("Order %s placed, total %.2f\n", order.ID, order.TotalAmount)
		return nil
	},
}

var orderCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		order, err := a.Gateway.CancelOrder(cmd.Context(), a.State.Token(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Order %s is now %s\n", order.ID, order.Status)
		return nil
	},
}

var (
	orderAddress       string
	orderCity          string
	orderPostalCode    string
	orderPhone         string
	orderPaymentMethod string
)

func init() {
	orderPlaceCmd.Flags().StringVar(&orderAddress, "address", "", "shipping address")
	orderPlaceCmd.Flags().StringVar(&orderCity, "city", "", "city")
	orderPlaceCmd.Flags().StringVar(&orderPostalCode, "postal-code", "", "postal code")
	orderPlaceCmd.Flags().StringVar(&orderPhone, "phone", "", "contact phone")
	orderPlaceCmd.Flags().StringVar(&orderPaymentMethod, "payment-method", "cod", "payment method")

	ordersCmd.AddCommand(orderPlaceCmd, orderCancelCmd)
	rootCmd.AddCommand(ordersCmd)
}
