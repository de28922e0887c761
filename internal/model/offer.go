package model

// Offer is a priced, available room for a specific stay.  Offers are built
// fresh by every search and never persisted.
type Offer struct {
	RoomID          uint64  `json:"room_id"`
	RoomNumber      string  `json:"room_number"`
	FloorNo         int     `json:"floor_no"`
	RoomNo          int     `json:"room_no"`
	Name            string  `json:"name"`
	SglBeds         int     `json:"sgl_beds"`
	DblBeds         int     `json:"dbl_beds"`
	Accommodates    int     `json:"accommodates"`
	Code            string  `json:"code"`
	Nights          int     `json:"nights"`
	BasePrice       float64 `json:"base_price"`
	TaxesPercentage float64 `json:"taxes_percentage"`
	TaxesValue      float64 `json:"taxes_value"`
	TotalPrice      float64 `json:"total_price"`
}

// NewOffer seeds an offer with the room attributes used for display and
// ordering.
func NewOffer(r Room) Offer {
	return Offer{
		RoomID:       r.ID,
		RoomNumber:   r.Number(),
		FloorNo:      r.FloorNo,
		RoomNo:       r.RoomNo,
		Name:         r.Name,
		SglBeds:      r.SglBeds,
		DblBeds:      r.DblBeds,
		Accommodates: r.Accommodates(),
		Code:         r.Code,
	}
}
