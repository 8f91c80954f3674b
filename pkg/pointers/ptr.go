// Package pointers builds and reads the optional fields of PayU requests.
package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Value returns *p, or the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
