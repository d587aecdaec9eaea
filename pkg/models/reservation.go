package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reservation statuses as normalized from the remote system.
const (
	ReservationStatusOpen      = "open"
	ReservationStatusCheckedIn = "checked_in"
	ReservationStatusCancelled = "cancelled"
)

// Reservation is the authoritative record of a stay. RemoteID is 0 for
// reservations created locally (walk-ins, phone bookings) and the remote
// system's reservation number for imported ones. There is deliberately
// no UNIQUE constraint on remote_id: local rows all share 0, so the
// staging merge enforces uniqueness of positive remote ids in
// application code instead.
type Reservation struct {
	bun.BaseModel `bun:"table:reservations,alias:r"`

	ID             int       `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	RemoteID       int       `json:"remote_id"`
	HutID          int       `bun:",nullzero" json:"hut_id"`
	DateFrom       string    `bun:",nullzero" json:"date_from"`
	DateTo         string    `bun:",nullzero" json:"date_to"`
	GuestName      string    `json:"guest_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Comment        string    `json:"comment"`
	ArrivalTime    string    `json:"arrival_time"`
	HalfBoard      bool      `json:"half_board"`
	Cancelled      bool      `json:"cancelled"`
	CheckedIn      bool      `json:"checked_in"`
	BedsDormitory  int       `json:"beds_dormitory"`
	BedsMultiBed   int       `json:"beds_multi_bed"`
	BedsTwoBed     int       `json:"beds_two_bed"`
	BedsSpecial    int       `json:"beds_special"`
}

// TotalBeds sums the per-category bed counts.
func (r *Reservation) TotalBeds() int {
	return r.BedsDormitory + r.BedsMultiBed + r.BedsTwoBed + r.BedsSpecial
}

// ReservationStaging is the holding table for freshly imported remote
// reservations before they are merged into reservations. It carries no
// key constraints at all; the merge classifies each row against the
// authoritative table.
type ReservationStaging struct {
	bun.BaseModel `bun:"table:reservation_staging,alias:rs"`

	ID            int    `bun:",pk,nullzero" json:"id"`
	RemoteID      int    `json:"remote_id"`
	HutID         int    `bun:",nullzero" json:"hut_id"`
	DateFrom      string `bun:",nullzero" json:"date_from"`
	DateTo        string `bun:",nullzero" json:"date_to"`
	GuestName     string `json:"guest_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Comment       string `json:"comment"`
	ArrivalTime   string `json:"arrival_time"`
	HalfBoard     bool   `json:"half_board"`
	Status        string `json:"status"`
	BedsDormitory int    `json:"beds_dormitory"`
	BedsMultiBed  int    `json:"beds_multi_bed"`
	BedsTwoBed    int    `json:"beds_two_bed"`
	BedsSpecial   int    `json:"beds_special"`
}
