package summaries

type ListDailySummariesQuery struct {
	HutID    *int    `query:"hut_id" json:"hut_id,omitempty" validate:"omitempty,min=1"`
	DateFrom *string `query:"date_from" json:"date_from,omitempty" validate:"omitempty,date"`
	DateTo   *string `query:"date_to" json:"date_to,omitempty" validate:"omitempty,date"`
}
