package domain

// Product is an immutable catalog entry defining the legal ranges for a
// loan's term, principal, interest and origination fee. Bounds are checked
// max >= min at creation only.
type Product struct {
	ID                   int64
	NameAndVersion       string
	ProductCode          string
	MinLoadTerm          int
	MaxLoadTerm          int
	MinPrincipalAmount   int
	MaxPrincipalAmount   int
	MinInterest          float64
	MaxInterest          float64
	MinOriginationAmount int
	MaxOriginationAmount int
}
