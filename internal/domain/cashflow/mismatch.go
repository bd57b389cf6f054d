package cashflow

// Mismatch flags a current-month cell whose real and projected values
// disagree. Absent values count as zero. Past and future months never flag.
func Mismatch(booked, projected Value, current bool) bool {
	if !current {
		return false
	}
	r, p := booked.OrZero(), projected.OrZero()
	switch {
	case !r.IsZero() && !p.IsZero():
		return !r.Equal(p)
	case !r.IsZero():
		return true
	default:
		return !p.IsZero()
	}
}
