package domain

// Discount rates in percent, applied in this order
const (
	ReturningCustomerPercent = 10
	FirstTimeCustomerPercent = 15
)

// DiscountKind identifies a discount rule
type DiscountKind string

const (
	DiscountReturning DiscountKind = "returning_customer"
	DiscountFirstTime DiscountKind = "first_booking"
)

// Discount is one applied pricing rule
type Discount struct {
	Kind    DiscountKind
	Percent int
	Label   string
}

// Pricing is computed once at creation and never recomputed
type Pricing struct {
	OriginalPrice int
	Discounts     []Discount
	FinalPrice    int
	Savings       int
}

// CalculatePricing applies the customer discounts multiplicatively and rounds
// the final price half away from zero to a whole unit.
//
// The multipliers are kept as an exact fraction, so 150 with a first-time
// discount is exactly 127.5 before rounding (128), never 127.4999.
func CalculatePricing(price int, isReturning, isFirstTime bool) Pricing {
	num, den := int64(price), int64(1)
	discounts := make([]Discount, 0, 2)

	if isReturning {
		num *= 100 - ReturningCustomerPercent
		den *= 100
		discounts = append(discounts, Discount{Kind: DiscountReturning, Percent: ReturningCustomerPercent, Label: "Returning customer: -10%"})
	}
	if isFirstTime {
		num *= 100 - FirstTimeCustomerPercent
		den *= 100
		discounts = append(discounts, Discount{Kind: DiscountFirstTime, Percent: FirstTimeCustomerPercent, Label: "First booking: -15%"})
	}

	final := int(roundHalfAwayFromZero(num, den))

	return Pricing{
		OriginalPrice: price,
		Discounts:     discounts,
		FinalPrice:    final,
		Savings:       price - final,
	}
}

func roundHalfAwayFromZero(num, den int64) int64 {
	if num < 0 {
		return -roundHalfAwayFromZero(-num, den)
	}
	return (2*num + den) / (2 * den)
}
