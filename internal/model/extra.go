package model

// Extra is an optional service (late checkout, parking, ...) from the extras
// catalog.
type Extra struct {
	ID          uint64  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}
