package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/shopkit/pkg/cart"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
	Long: `Manage the shopping cart.

Available subcommands:
  show   - Print the current cart
  add    - Add a quantity of a product by slug
  remove - Remove a product from the cart`,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		snap, err := app.Cart.LoadAuthoritative(ctx)
		if err != nil {
			return err
		}
		printCart(snap)
		return nil
	},
}

var cartQuantity int

var cartAddCmd = &cobra.Command{
	Use:   "add <product-slug>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if cartQuantity < 1 {
			return fmt.Errorf("quantity must be at least 1, got %d", cartQuantity)
		}

		product, err := app.Catalog.BySlug(ctx, args[0])
		if err != nil {
			return err
		}

		line, sync, err := app.Cart.ApplyDelta(ctx, product.ID, cartQuantity, cart.ProductMeta{
			Name:      product.Name,
			UnitPrice: product.Price,
			ImageRef:  product.Image,
		})
		if err != nil {
			return err
		}
		if err := sync.Wait(ctx); err != nil {
			return fmt.Errorf("cart change was rolled back: %w", err)
		}
		fmt.Printf("%s x%d in cart\n", line.Name, line.Quantity)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		sync, err := app.Cart.RemoveLine(ctx, productID)
		if err != nil {
			return err
		}
		if err := sync.Wait(ctx); err != nil {
			return fmt.Errorf("removal failed, cart restored from server: %w", err)
		}
		fmt.Println("Removed")
		return nil
	},
}

func printCart(snap cart.Snapshot) {
	if snap.IsEmpty() {
		fmt.Println("Cart is empty")
		return
	}
	for _, line := range snap.Lines {
		fmt.Printf("%6d  %-40s %3d x %8s = %8s\n",
			line.ProductID, line.Name, line.Quantity, line.UnitPrice, line.Total())
	}
	fmt.Printf("%d items, subtotal %s\n", snap.ItemCount(), snap.Subtotal())
}

func init() {
	cartAddCmd.Flags().IntVarP(&cartQuantity, "quantity", "q", 1, "quantity to add")
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd)
}
