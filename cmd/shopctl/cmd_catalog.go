package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/shopkit/pkg/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		products, err := app.Catalog.Search(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products found")
			return nil
		}
		printProducts(products)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <product-slug>",
	Short: "Show one product in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		product, err := app.Catalog.BySlug(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (id %d)\n%s\n\n%s\n", product.Name, product.ID, product.Price, product.Description)
		return nil
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the store front page",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		home, err := app.Catalog.Home(ctx)
		if err != nil {
			return err
		}
		if len(home.Categories) > 0 {
			fmt.Println("Categories:")
			for _, c := range home.Categories {
				fmt.Printf("  %s (%s)\n", c.Name, c.Slug)
			}
		}
		if len(home.Featured) > 0 {
			fmt.Println("Featured:")
			printProducts(home.Featured)
		}
		return nil
	},
}

func printProducts(products []catalog.Product) {
	for _, p := range products {
		fmt.Printf("%6d  %-40s %8s  %s\n", p.ID, p.Name, p.Price, p.Slug)
	}
}
