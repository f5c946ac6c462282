package service

// Allocate returns how much of an offer's remaining capacity a request
// receives: min(requested, remaining), never negative.
func Allocate(requested, remaining int) int {
	if requested <= 0 || remaining <= 0 {
		return 0
	}
	return min(requested, remaining)
}
