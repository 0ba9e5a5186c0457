/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopvine/storefront/internal/app"
	"github.com/shopvine/storefront/internal/gateway"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Back-office operations (admin role required)",
}

// newAdminApp rehydrates the session and rejects non-admin roles before
// any request is attempted.
func newAdminApp(ctx context.Context) (*app.App, error) {
	a, err := newSessionApp(ctx)
	if err != nil {
		return nil, err
	}
	if !a.State.IsAdmin() {
		return nil, fmt.Errorf("admin role required")
	}
	return a, nil
}

func productFormFromFlags() (gateway.ProductForm, func(), error) {
	form := gateway.ProductForm{
		Name:           adminProductName,
		Price:          adminProductPrice,
		Category:       adminProductCategory,
		Brand:          adminProductBrand,
		Description:    adminProductDescription,
		Specifications: adminProductSpecs,
	}
	cleanup := func() {}

	if adminProductImage != "" {
		file, err := os.Open(adminProductImage)
		if err != nil {
			return form, cleanup, err
		}
		form.Image = file
		form.ImageName = filepath.Base(adminProductImage)
		cleanup = func() { file.Close() }
	}
	return form, cleanup, nil
}

var adminProductCreateCmd = &cobra.Command{
	Use:   "product-create",
	Short: "Create a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}

		form, cleanup, err := productFormFromFlags()
		if err != nil {
			return err
		}
		defer cleanup()

		product, err := a.Gateway.CreateProduct(cmd.Context(), a.State.Token(), form)
		if err != nil {
			return err
		}
		a.Catalog.UpsertProduct(product)
		return printJSON(product)
	},
}

var adminProductUpdateCmd = &cobra.Command{
	Use:   "product-update <id>",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}

		form, cleanup, err := productFormFromFlags()
		if err != nil {
			return err
		}
		defer cleanup()

		product, err := a.Gateway.UpdateProduct(cmd.Context(), a.State.Token(), args[0], form)
		if err != nil {
			return err
		}
		a.Catalog.UpsertProduct(product)
		return printJSON(product)
	},
}

var adminProductDeleteCmd = &cobra.Command{
	Use:   "product-delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Gateway.DeleteProduct(cmd.Context(), a.State.Token(), args[0]); err != nil {
			return err
		}
		a.Catalog.RemoveProduct(args[0])
		fmt.Println("Product deleted")
		return nil
	},
}

var adminProductImageCmd = &cobra.Command{
	Use:   "product-image <id> <file>",
	Short: "Upload a product image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}

		file, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer file.Close()

		product, err := a.Gateway.UploadProductImage(cmd.Context(), a.State.Token(), args[0], filepath.Base(args[1]), file)
		if err != nil {
			return err
		}
		a.Catalog.UpsertProduct(product)
		return printJSON(product)
	},
}

var adminCategoryCreateCmd = &cobra.Command{
	Use:   "category-create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		category, err := a.Gateway.CreateCategory(cmd.Context(), a.State.Token(), args[0])
		if err != nil {
			return err
		}
		return printJSON(category)
	},
}

var adminCategoryDeleteCmd = &cobra.Command{
	Use:   "category-delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Gateway.DeleteCategory(cmd.Context(), a.State.Token(), args[0]); err != nil {
			return err
		}
		fmt.Println("Category deleted")
		return nil
	},
}

func openSlides(paths []string) ([]gateway.SlideFile, func(), error) {
	files := make([]gateway.SlideFile, 0, len(paths))
	var opened []*os.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		opened = append(opened, file)
		files = append(files, gateway.SlideFile{Name: filepath.Base(path), Reader: file})
	}
	return files, cleanup, nil
}

var adminCategorySlidesCmd = &cobra.Command{
	Use:   "category-slides <id> <file>...",
	Short: "Upload category slides",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}

		files, cleanup, err := openSlides(args[1:])
		if err != nil {
			return err
		}
		defer cleanup()

		category, err := a.Gateway.UploadCategorySlides(cmd.Context(), a.State.Token(), args[0], files)
		if err != nil {
			return err
		}
		return printJSON(category)
	},
}

var adminCategorySlideDeleteCmd = &cobra.Command{
	Use:   "category-slide-delete <id> <slide-path>",
	Short: "Delete one category slide",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Gateway.DeleteCategorySlide(cmd.Context(), a.State.Token(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Slide deleted")
		return nil
	},
}

var adminHomeSlidesCmd = &cobra.Command{
	Use:   "home-slides <file>...",
	Short: "Upload homepage slides",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}

		files, cleanup, err := openSlides(args)
		if err != nil {
			return err
		}
		defer cleanup()

		slides, err := a.Gateway.UploadHomeSlides(cmd.Context(), a.State.Token(), files)
		if err != nil {
			return err
		}
		return printJSON(slides)
	},
}

var adminHomeSlideDeleteCmd = &cobra.Command{
	Use:   "home-slide-delete <slide-path>",
	Short: "Delete one homepage slide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Gateway.DeleteHomeSlide(cmd.Context(), a.State.Token(), args[0]); err != nil {
			return err
		}
		fmt.Println("Slide deleted")
		return nil
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		users, err := a.Gateway.ListUsers(cmd.Context(), a.State.Token())
		if err != nil {
			return err
		}
		return printJSON(users)
	},
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List all orders, paginated",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdminApp(cmd.Context())
		if err != nil {
			return err
		}
		page, err := a.Gateway.ListOrders(cmd.Context(), a.State.Token(), adminOrdersPage, adminOrdersLimit)
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var (
	adminProductName        string
	adminProductPrice       float64
	adminProductCategory    string
	adminProductBrand       string
	adminProductDescription string
	adminProductSpecs       []string
	adminProductImage       string

	adminOrdersPage  int
	adminOrdersLimit int
)

func init() {
	for _, c := range []*cobra.Command{adminProductCreateCmd, adminProductUpdateCmd} {
		c.Flags().StringVar(&adminProductName, "name", "", "product name")
		c.Flags().Float64Var(&adminProductPrice, "price", 0, "unit price")
		c.Flags().StringVar(&adminProductCategory, "category", "", "category name")
		c.Flags().StringVar(&adminProductBrand, "brand", "", "brand")
		c.Flags().StringVar(&adminProductDescription, "description", "", "description")
		c.Flags().StringArrayVar(&adminProductSpecs, "spec", nil, "specification line (repeatable)")
		c.Flags().StringVar(&adminProductImage, "image", "", "image file path")
	}

	adminOrdersCmd.Flags().IntVar(&adminOrdersPage, "page", 1, "page number")
	adminOrdersCmd.Flags().IntVar(&adminOrdersLimit, "limit", 10, "orders per page")

	adminCmd.AddCommand(
		adminProductCreateCmd, adminProductUpdateCmd, adminProductDeleteCmd, adminProductImageCmd,
		adminCategoryCreateCmd, adminCategoryDeleteCmd, adminCategorySlidesCmd, adminCategorySlideDeleteCmd,
		adminHomeSlidesCmd, adminHomeSlideDeleteCmd,
		adminUsersCmd, adminOrdersCmd,
	)
	rootCmd.AddCommand(adminCmd)
}
