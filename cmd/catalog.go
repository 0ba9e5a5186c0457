/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/shopvine/storefront/types"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.Catalog.LoadProducts(cmd.Context()); err != nil {
			return err
		}

		var products []types.Product
		switch {
		case productsSearch != "":
			products = a.Catalog.Search(productsSearch)
		case productsCategory != "":
			products = a.Catalog.FilterByCategory(productsCategory)
		default:
			products, _ = a.State.Products()
		}
		return printJSON(products)
	},
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		product, err := a.Catalog.FetchProduct(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println("Image:", a.Gateway.ImageURL(product.Image))
		return printJSON(product)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.Catalog.LoadCategories(cmd.Context()); err != nil {
			return err
		}
		return printJSON(a.Catalog.Categories())
	},
}

var slidesCmd = &cobra.Command{
	Use:   "slides",
	Short: "List homepage slides",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		slides, err := a.Gateway.ListHomeSlides(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(slides)
	},
}

var (
	productsSearch   string
	productsCategory string
)

func init() {
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "name substring to search for")
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "exact category name")

	rootCmd.AddCommand(productsCmd, productCmd, categoriesCmd, slidesCmd)
}
