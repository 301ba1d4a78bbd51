package versiondb

// DefaultMaxResident is the resident dataset bound used when Options leaves it 0.
const DefaultMaxResident = 50

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
