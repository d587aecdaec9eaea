package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Quota modes as reported by the remote system.
const (
	QuotaModeServiced   = "SERVICED"
	QuotaModeUnserviced = "UNSERVICED"
	QuotaModeClosed     = "CLOSED"
)

// Quota is a remote-defined bed-capacity rule for a date range. RemoteID
// is the remote system's own primary key and is the reconciliation key:
// a quota disappears locally when the remote system stops reporting it
// for its date range.
type Quota struct {
	bun.BaseModel `bun:"table:quotas,alias:q"`

	ID               int        `bun:",pk,nullzero" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	RemoteID         int        `bun:",nullzero" json:"remote_id"`
	HutID            int        `bun:",nullzero" json:"hut_id"`
	DateFrom         string     `bun:",nullzero" json:"date_from"`
	DateTo           string     `bun:",nullzero" json:"date_to"`
	Title            string     `json:"title"`
	Mode             string     `bun:",nullzero" json:"mode"`
	Capacity         int        `json:"capacity"`
	Monday           bool       `json:"monday"`
	Tuesday          bool       `json:"tuesday"`
	Wednesday        bool       `json:"wednesday"`
	Thursday         bool       `json:"thursday"`
	Friday           bool       `json:"friday"`
	Saturday         bool       `json:"saturday"`
	Sunday           bool       `json:"sunday"`
	RecurrenceLength int        `json:"recurrence_length"`
	SeriesDateFrom   *string    `json:"series_date_from,omitempty"`
	SeriesDateTo     *string    `json:"series_date_to,omitempty"`
	IsRecurring      bool       `json:"is_recurring"`

	Categories []*QuotaCategory `bun:"rel:has-many,join:id=quota_id" json:"categories,omitempty"`
	Languages  []*QuotaLanguage `bun:"rel:has-many,join:id=quota_id" json:"languages,omitempty"`
}

// QuotaCategory is the per-bed-category breakdown of a quota. Rows are
// fully replaced whenever the parent quota is written, never diffed
// individually.
type QuotaCategory struct {
	bun.BaseModel `bun:"table:quota_categories,alias:qc"`

	ID           int    `bun:",pk,nullzero" json:"id"`
	QuotaID      int    `bun:",nullzero" json:"quota_id"`
	CategoryCode string `bun:",nullzero" json:"category_code"`
	BedCount     int    `json:"bed_count"`
}

// QuotaLanguage holds a localized quota description. Fully replaced with
// the parent, like QuotaCategory.
type QuotaLanguage struct {
	bun.BaseModel `bun:"table:quota_languages,alias:ql"`

	ID          int    `bun:",pk,nullzero" json:"id"`
	QuotaID     int    `bun:",nullzero" json:"quota_id"`
	Language    string `bun:",nullzero" json:"language"`
	Description string `json:"description"`
}
