package ptr

func Of[T any](v T) *T {
	return &v
}

// Clone copies the pointee; nil stays nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
