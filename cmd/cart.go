/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		items, err := a.Cart.Items(cmd.Context())
		if err != nil {
			return err
		}
		if err := printJSON(items); err != nil {
			return err
		}
		fmt.Printf("Total items: %d\n", a.State.CartCount())
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity := 1
		if len(args) == 2 {
			q, err := strconv.Atoi(args[1])
			if err != nil || q < 1 {
				return fmt.Errorf("quantity must be a positive integer")
			}
			quantity = q
		}

		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Cart.Add(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		fmt.Printf("Cart items: %d\n", a.State.CartCount())
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id> <quantity>",
	Short: "Set a product's quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be an integer")
		}

		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Cart.UpdateQuantity(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		fmt.Printf("Cart items: %d\n", a.State.CartCount())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Cart.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Cart items: %d\n", a.State.CartCount())
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Cart.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cart cleared")
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
