// Package money represents storefront prices as integer minor units.
//
// The storefront API serializes prices inconsistently: authenticated cart
// payloads carry decimal strings ("29.99") while guest payloads and some
// aggregate fields carry bare JSON numbers. Amount absorbs both on the wire
// and keeps all arithmetic exact by storing cents, so derived aggregates
// (line totals, cart subtotals) never drift from the sum of their parts.
//
// # Usage
//
//	price, err := money.Parse("29.99")
//	if err != nil {
//	    return err
//	}
//	total := price.Mul(3)
//	fmt.Println(total) // 89.97
//
// Amount is a value type and safe to copy; it is not a general-purpose
// currency library and carries no currency code.
package money
