package reservations

type ListReservationsQuery struct {
	Limit            int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset           int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	HutID            *int    `query:"hut_id" json:"hut_id,omitempty" validate:"omitempty,min=1"`
	DateFrom         *string `query:"date_from" json:"date_from,omitempty" validate:"omitempty,date"`
	DateTo           *string `query:"date_to" json:"date_to,omitempty" validate:"omitempty,date"`
	IncludeCancelled bool    `query:"include_cancelled" json:"include_cancelled,omitempty"`
}

type CreateReservationPayload struct {
	HutID         int    `json:"hut_id" validate:"required,min=1"`
	DateFrom      string `json:"date_from" validate:"required,date,ne="`
	DateTo        string `json:"date_to" validate:"required,date,ne="`
	GuestName     string `json:"guest_name" validate:"required,min=1,max=300"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Comment       string `json:"comment" validate:"omitempty,max=2000"`
	ArrivalTime   string `json:"arrival_time" validate:"omitempty,max=20"`
	HalfBoard     bool   `json:"half_board"`
	BedsDormitory int    `json:"beds_dormitory" validate:"min=0"`
	BedsMultiBed  int    `json:"beds_multi_bed" validate:"min=0"`
	BedsTwoBed    int    `json:"beds_two_bed" validate:"min=0"`
	BedsSpecial   int    `json:"beds_special" validate:"min=0"`
}

type UpdateReservationPayload struct {
	DateFrom      *string `json:"date_from,omitempty" validate:"omitempty,date,ne="`
	DateTo        *string `json:"date_to,omitempty" validate:"omitempty,date,ne="`
	GuestName     *string `json:"guest_name,omitempty" validate:"omitempty,min=1,max=300"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
	ArrivalTime   *string `json:"arrival_time,omitempty" validate:"omitempty,max=20"`
	HalfBoard     *bool   `json:"half_board,omitempty"`
	Cancelled     *bool   `json:"cancelled,omitempty"`
	CheckedIn     *bool   `json:"checked_in,omitempty"`
	BedsDormitory *int    `json:"beds_dormitory,omitempty" validate:"omitempty,min=0"`
	BedsMultiBed  *int    `json:"beds_multi_bed,omitempty" validate:"omitempty,min=0"`
	BedsTwoBed    *int    `json:"beds_two_bed,omitempty" validate:"omitempty,min=0"`
	BedsSpecial   *int    `json:"beds_special,omitempty" validate:"omitempty,min=0"`
}
