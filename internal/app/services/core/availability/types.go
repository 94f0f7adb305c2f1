package availability

import "time"

// clock holds a local wall time (hour and minute).
type clock struct {
	H int
	M int
}

func (c clock) minutes() int {
	return c.H*60 + c.M
}

// interval is a concrete timestamped slot instance. Start is inclusive,
// End exclusive.
type interval struct {
	Start time.Time
	End   time.Time
}

// overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count.
func (iv interval) overlaps(other interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}
