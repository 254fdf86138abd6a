package boardgame

// Corporation tracks the mutable state of one of the seven tradeable
// chains. NewCorporation returns an inactive, sizeless corporation
// with a full share pool, matching a chain that has never been
// founded; the zero value has an empty share pool.
type Corporation struct {
	ID              CorporationID
	Tier            Tier
	Active          bool
	Size            int
	RemainingShares int
	Safe            bool
}

// NewCorporation returns an inactive corporation with the full share
// pool.
func NewCorporation(id CorporationID) *Corporation {
	return &Corporation{
		ID:              id,
		Tier:            TierOf(id),
		RemainingShares: maxSharesPerCorp,
	}
}

// Establish activates the corporation with an initial size (the
// number of tiles in the founding component) and resets its share
// pool to full.
func (c *Corporation) Establish(initialSize int) {
	c.Active = true
	c.Size = initialSize
	c.RemainingShares = maxSharesPerCorp
	c.Safe = c.Size >= safeSize
}

// Grow increases size by n and returns whether the corporation just
// crossed the safe threshold (size >= 11) as a result of this call.
func (c *Corporation) Grow(n int) (justBecameSafe bool) {
	c.Size += n
	if !c.Safe && c.Size >= safeSize {
		c.Safe = true
		return true
	}
	return false
}

// Liquidate deactivates the corporation and resets it to the
// brand-new state: size 0, full share pool, not safe.
func (c *Corporation) Liquidate() {
	c.Active = false
	c.Size = 0
	c.RemainingShares = maxSharesPerCorp
	c.Safe = false
}

// priceBand maps a corporation size to the additional price applied
// on top of the tier base, per spec.md §3's price table.
func priceBand(size int) int {
	switch {
	case size <= 1:
		return 0
	case size == 2:
		return 100
	case size == 3:
		return 200
	case size == 4:
		return 300
	case size == 5:
		return 400
	case size <= 10:
		return 500
	case size <= 20:
		return 600
	case size <= 30:
		return 700
	case size <= 40:
		return 800
	default:
		return 900
	}
}

// Stats are the derived values a client needs to price a trade.
type Stats struct {
	Price         int
	MajorityBonus int
	MinorityBonus int
}

// Stats computes the corporation's current price and bonus pool from
// its tier and size.
func (c *Corporation) Stats() Stats {
	price := c.Tier.BasePrice() + priceBand(c.Size)
	return Stats{
		Price:         price,
		MajorityBonus: price * 10,
		MinorityBonus: price * 5,
	}
}
