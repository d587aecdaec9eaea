package quotas

type ListQuotasQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	HutID    *int    `query:"hut_id" json:"hut_id,omitempty" validate:"omitempty,min=1"`
	DateFrom *string `query:"date_from" json:"date_from,omitempty" validate:"omitempty,date"`
	DateTo   *string `query:"date_to" json:"date_to,omitempty" validate:"omitempty,date"`
}
