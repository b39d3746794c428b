// Package estimate implements the lab-management estimation math: a sum
// of line-item costs with multiplicative margin and discount adjustments.
//
//	subtotal = sum(hours * rate * units)
//	total    = subtotal * (1 + margin/100) * (1 - discount/100)
//
// Pure arithmetic, no state.
package estimate

// LineItem is one costed row of an estimate.
type LineItem struct {
	Description string  `yaml:"description" json:"description"`
	Hours       float64 `yaml:"hours" json:"hours"`
	Rate        float64 `yaml:"rate" json:"rate"`
	Units       int     `yaml:"units" json:"units"`
}

// Cost returns hours * rate * units for this row.
func (li LineItem) Cost() float64 {
	return li.Hours * li.Rate * float64(li.Units)
}

// Estimate is a set of line items with percentage adjustments. Margin
// marks the subtotal up, discount marks the margined amount down; both
// are multiplicative, so a 10% margin with a 10% discount is not a wash.
type Estimate struct {
	Items       []LineItem `yaml:"items" json:"items"`
	MarginPct   float64    `yaml:"margin_pct" json:"margin_pct"`
	DiscountPct float64    `yaml:"discount_pct" json:"discount_pct"`
}

// Subtotal sums the line-item costs.
func (e Estimate) Subtotal() float64 {
	var sum float64
	for _, li := range e.Items {
		sum += li.Cost()
	}
	return sum
}

// Total applies margin and discount to the subtotal.
func (e Estimate) Total() float64 {
	return e.Subtotal() * (1 + e.MarginPct/100) * (1 - e.DiscountPct/100)
}
