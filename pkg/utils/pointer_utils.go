package utils

// SafeDeref dereferences p and returns the zero value if nil
func SafeDeref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
