package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/shopkit/pkg/payment"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		list, err := app.Orders.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No orders yet")
			return nil
		}
		for _, o := range list {
			paid := "unpaid"
			if o.IsPaid {
				paid = "paid"
			}
			fmt.Printf("#%d  %s  %s  %s  %s\n",
				o.ID, o.CreatedAt.Format("2006-01-02"), o.Status, paid, o.TotalPrice)
		}
		return nil
	},
}

var shipTo payment.Address

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start checkout for the current cart",
	Long: `Start checkout for the current cart.

Prints the payment provider URL to finish the purchase in a browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		redirect, err := app.Payments.Initiate(ctx, shipTo)
		if err != nil {
			return err
		}
		fmt.Println("Finish payment at:", redirect)
		return nil
	},
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&shipTo.FullName, "name", "", "recipient full name")
	f.StringVar(&shipTo.Phone, "phone", "", "recipient phone number")
	f.StringVar(&shipTo.City, "city", "", "delivery city")
	f.StringVar(&shipTo.SubCity, "sub-city", "", "delivery sub-city or district")
	f.StringVar(&shipTo.Street, "street", "", "delivery street")
	f.StringVar(&shipTo.HouseNo, "house", "", "house or apartment number")
	for _, name := range []string{"name", "phone", "city"} {
		_ = checkoutCmd.MarkFlagRequired(name)
	}
}
