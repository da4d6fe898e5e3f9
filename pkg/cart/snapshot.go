package cart

import "github.com/dmitrymomot/shopkit/pkg/money"

// Line is one product in the cart. Unique by ProductID; Quantity >= 1.
type Line struct {
	ProductID int64
	Name      string
	UnitPrice money.Amount
	Quantity  int
	ImageRef  string
}

// Total returns the line's extended price.
func (l Line) Total() money.Amount {
	return l.UnitPrice.Mul(l.Quantity)
}

// Snapshot is an immutable copy of the cart at one point in time. Lines keep
// insertion order; the order carries no meaning beyond display stability.
type Snapshot struct {
	Lines []Line
}

// ItemCount is the sum of all line quantities.
func (s Snapshot) ItemCount() int {
	var n int
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of all extended line prices. Always derived, never
// cached, so it cannot diverge from the lines.
func (s Snapshot) Subtotal() money.Amount {
	var total money.Amount
	for _, l := range s.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (s Snapshot) IsEmpty() bool { return len(s.Lines) == 0 }

// Line returns the line for a product, if present.
func (s Snapshot) Line(productID int64) (Line, bool) {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// wireCart is the authoritative cart payload as the API serializes it.
// The top-level aggregates are intentionally ignored: the engine re-derives
// them from the lines instead of trusting two sources of truth.
type wireCart struct {
	Items []struct {
		Product struct {
			ID    int64        `json:"id"`
			Name  string       `json:"name"`
			Price money.Amount `json:"price"`
			Image *string      `json:"image"`
		} `json:"product"`
		Quantity int `json:"quantity"`
	} `json:"items"`
	TotalItems int          `json:"total_items"`
	TotalPrice money.Amount `json:"total_price"`
}

func (w wireCart) lines() []Line {
	lines := make([]Line, 0, len(w.Items))
	for _, item := range w.Items {
		if item.Quantity < 1 {
			// The server should never hand back a zero-quantity line; drop
			// it rather than break the local invariant.
			continue
		}
		line := Line{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		}
		if item.Product.Image != nil {
			line.ImageRef = *item.Product.Image
		}
		lines = append(lines, line)
	}
	return lines
}
