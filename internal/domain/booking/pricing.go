package booking

import "math"

// DefaultDepositRatio is the share of the total that must be paid before a
// booking can be confirmed.
const DefaultDepositRatio = 0.4

type PricingInput struct {
	Adults      int
	Children    int
	Infants     int
	AdultPrice  int64
	ChildPrice  int64
	InfantPrice int64
	Discount    int64
	Tax         int64
}

type LineItem struct {
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unitPrice"`
	Total     int64 `json:"total"`
}

type Breakdown struct {
	Adults   LineItem `json:"adults"`
	Children LineItem `json:"children"`
	Infants  LineItem `json:"infants"`
}

type Pricing struct {
	AdultPrice  int64     `json:"adultPrice"`
	ChildPrice  int64     `json:"childPrice"`
	InfantPrice int64     `json:"infantPrice"`
	Breakdown   Breakdown `json:"breakdown"`
	Subtotal    int64     `json:"subtotal"`
	Discount    int64     `json:"discount"`
	Tax         int64     `json:"tax"`
	Total       int64     `json:"total"`
}

type Quote struct {
	Pricing         Pricing
	DepositRequired int64
}

type PricingCalculator interface {
	Calculate(in PricingInput) Quote
}

type DefaultPricingCalculator struct {
	DepositRatio float64
}

func NewDefaultPricingCalculator() *DefaultPricingCalculator {
	return &DefaultPricingCalculator{DepositRatio: DefaultDepositRatio}
}

func NewPricingCalculator(depositRatio float64) *DefaultPricingCalculator {
	if depositRatio <= 0 || depositRatio > 1 {
		depositRatio = DefaultDepositRatio
	}
	return &DefaultPricingCalculator{DepositRatio: depositRatio}
}

func (c *DefaultPricingCalculator) Calculate(in PricingInput) Quote {
	adults := lineItem(in.Adults, in.AdultPrice)
	children := lineItem(in.Children, in.ChildPrice)
	infants := lineItem(in.Infants, in.InfantPrice)

	subtotal := adults.Total + children.Total + infants.Total
	total := subtotal - in.Discount + in.Tax

	return Quote{
		Pricing: Pricing{
			AdultPrice:  in.AdultPrice,
			ChildPrice:  in.ChildPrice,
			InfantPrice: in.InfantPrice,
			Breakdown: Breakdown{
				Adults:   adults,
				Children: children,
				Infants:  infants,
			},
			Subtotal: subtotal,
			Discount: in.Discount,
			Tax:      in.Tax,
			Total:    total,
		},
		DepositRequired: roundHalfUp(float64(total) * c.DepositRatio),
	}
}

func lineItem(qty int, unit int64) LineItem {
	return LineItem{
		Quantity:  qty,
		UnitPrice: unit,
		Total:     int64(qty) * unit,
	}
}

// roundHalfUp rounds .5 towards positive infinity for every sign.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
