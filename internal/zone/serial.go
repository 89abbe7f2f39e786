package zone

import "time"

const serialDateFactor = 100

// NextSerial computes the next zone serial following the YYYYMMDDnn
// convention. The result is guaranteed to be strictly greater than current,
// so the serial never decreases regardless of clock behaviour: the first
// change of a day yields date*100+1, and whenever that is not an increase
// (further changes the same day, the nn counter exhausted, or the clock
// went backwards) the only strictly-greater choice left is a plain
// increment.
func NextSerial(current uint32, now time.Time) uint32 {
	date := uint32(now.Year()*10000 + int(now.Month())*100 + now.Day())

	if candidate := date*serialDateFactor + 1; candidate > current {
		return candidate
	}

	return current + 1
}
