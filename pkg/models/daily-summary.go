package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailySummary is one row per (hut, day) of occupancy data imported from
// the remote system. The (hut_id, day) pair is the natural key; the
// remote system does not assign these rows an identifier of their own.
type DailySummary struct {
	bun.BaseModel `bun:"table:daily_summaries,alias:ds"`

	ID             int       `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	HutID          int       `bun:",nullzero" json:"hut_id"`
	Day            string    `bun:",nullzero" json:"day"`
	ArrivingGuests int       `json:"arriving_guests"`
	TotalGuests    int       `json:"total_guests"`
	HalfBoard      bool      `json:"half_board"`
	Vegetarians    int       `json:"vegetarians"`
	Children       int       `json:"children"`
	MountainGuides int       `json:"mountain_guides"`
	WaitingList    bool      `json:"waiting_list"`

	Categories []*DailySummaryCategory `bun:"rel:has-many,join:id=daily_summary_id" json:"categories,omitempty"`
}

// DailySummaryCategory is the per-bed-category occupancy for one day.
// Fully replaced per day on each import.
type DailySummaryCategory struct {
	bun.BaseModel `bun:"table:daily_summary_categories,alias:dsc"`

	ID              int     `bun:",pk,nullzero" json:"id"`
	DailySummaryID  int     `bun:",nullzero" json:"daily_summary_id"`
	CategoryCode    string  `bun:",nullzero" json:"category_code"`
	FreePlaces      int     `json:"free_places"`
	AssignedGuests  int     `json:"assigned_guests"`
	OccupancyPct    float64 `json:"occupancy_pct"`
}
