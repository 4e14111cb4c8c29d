package order

// A TipTier pays Tip when the remaining-time ratio is strictly above Above.
type TipTier struct {
	Above float64
	Tip   int
}

// A TipPolicy is a list of tiers sorted by Above, highest first. A ratio that
// clears no tier earns nothing.
type TipPolicy []TipTier

// DefaultTipPolicy pays 6 above three quarters of the time left, 4 above a
// half, and 2 above a quarter.
var DefaultTipPolicy = TipPolicy{
	{Above: 0.75, Tip: 6},
	{Above: 0.5, Tip: 4},
	{Above: 0.25, Tip: 2},
}

// ForRatio returns the tip for the fraction of time remaining.
func (p TipPolicy) ForRatio(ratio float64) int {
	for _, tier := range p {
		if ratio > tier.Above {
			return tier.Tip
		}
	}

	return 0
}

// For returns the tip the order earns right now.
func (p TipPolicy) For(o *Order) int {
	return p.ForRatio(RemainingRatio(o))
}

// RemainingRatio returns remaining time over initial remaining time. An order
// without a time budget has a ratio of 0.
func RemainingRatio(o *Order) float64 {
	initial := o.InitialRemainingTime()
	if initial <= 0 {
		return 0
	}

	return o.RemainingTime() / initial
}

// CalculateTip returns the tip the order earns under DefaultTipPolicy.
func CalculateTip(o *Order) int {
	return DefaultTipPolicy.For(o)
}
