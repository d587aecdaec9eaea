package remote

import (
	"strings"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	localDateLayout       = "2006-01-02"
	remoteDateTimeLayout  = "02.01.2006 15:04:05"
	localDateTimeLayout   = "2006-01-02 15:04:05"
)

// ParseRemoteDate converts the remote dd.mm.yyyy format into an ISO
// yyyy-mm-dd date string.
func ParseRemoteDate(s string) (string, error) {
	t, err := time.Parse(remoteDateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", errors.WithStack(err)
	}
	return t.Format(localDateLayout), nil
}

// ParseRemoteDateTime converts dd.mm.yyyy with an optional hh:mm:ss part
// into an ISO datetime (or date when no time is present).
func ParseRemoteDateTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(remoteDateTimeLayout, s); err == nil {
		return t.Format(localDateTimeLayout), nil
	}
	return ParseRemoteDate(s)
}

// Mapper converts remote records into local rows. It holds no state
// beyond a logger: every method is a pure transform of its input, with
// invalid records rejected rather than aborting the batch.
type Mapper struct {
	log logger.Logger
}

func NewMapper() *Mapper {
	return &Mapper{log: logger.New()}
}

// MapReservation converts one remote reservation into a staging row. A
// record without a reservation number or parseable stay dates is
// rejected; the caller skips it and continues with the rest.
func (m *Mapper) MapReservation(rec ReservationRecord, hutID int) (*models.ReservationStaging, error) {
	if rec.ReservationNumber.Int() <= 0 {
		return nil, errors.New("reservation record has no reservation number")
	}
	dateFrom, err := ParseRemoteDate(rec.CheckinDate)
	if err != nil {
		return nil, errors.Wrap(err, "invalid checkin date")
	}
	dateTo, err := ParseRemoteDate(rec.CheckoutDate)
	if err != nil {
		return nil, errors.Wrap(err, "invalid checkout date")
	}

	row := &models.ReservationStaging{
		RemoteID:    rec.ReservationNumber.Int(),
		HutID:       hutID,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		GuestName:   guestName(rec.FirstName, rec.LastName),
		Email:       strings.TrimSpace(rec.Email),
		Phone:       strings.TrimSpace(rec.PhoneNumber),
		Comment:     strings.TrimSpace(rec.Comment),
		ArrivalTime: strings.TrimSpace(rec.ArrivalTime),
		HalfBoard:   rec.HalfBoard,
		Status:      mapReservationStatus(rec.Status),
	}

	for _, cat := range rec.Categories {
		label, ok := models.BedCategoryLabel(cat.CategoryID.Int())
		if !ok {
			m.log.Warn("dropping unrecognized bed category", logger.Data{
				"category_code": cat.CategoryID.Int(),
				"remote_id":     rec.ReservationNumber.Int(),
			})
			continue
		}
		switch label {
		case models.BedCategoryDormitory:
			row.BedsDormitory += cat.Amount.Int()
		case models.BedCategoryMultiBed:
			row.BedsMultiBed += cat.Amount.Int()
		case models.BedCategoryTwoBed:
			row.BedsTwoBed += cat.Amount.Int()
		case models.BedCategorySpecial:
			row.BedsSpecial += cat.Amount.Int()
		}
	}

	return row, nil
}

// MapQuota converts one remote bed-capacity rule, children included.
func (m *Mapper) MapQuota(rec QuotaRecord, hutID int) (*models.Quota, error) {
	if rec.ID.Int() <= 0 {
		return nil, errors.New("quota record has no id")
	}
	dateFrom, err := ParseRemoteDate(rec.DateFrom)
	if err != nil {
		return nil, errors.Wrap(err, "invalid quota start date")
	}
	dateTo, err := ParseRemoteDate(rec.DateTo)
	if err != nil {
		return nil, errors.Wrap(err, "invalid quota end date")
	}
	mode, err := parseQuotaMode(rec.Mode)
	if err != nil {
		return nil, err
	}

	quota := &models.Quota{
		RemoteID:         rec.ID.Int(),
		HutID:            hutID,
		DateFrom:         dateFrom,
		DateTo:           dateTo,
		Title:            strings.TrimSpace(rec.Title),
		Mode:             mode,
		Capacity:         rec.Capacity.Int(),
		Monday:           rec.Monday,
		Tuesday:          rec.Tuesday,
		Wednesday:        rec.Wednesday,
		Thursday:         rec.Thursday,
		Friday:           rec.Friday,
		Saturday:         rec.Saturday,
		Sunday:           rec.Sunday,
		RecurrenceLength: rec.RecurrenceLength.Int(),
		IsRecurring:      rec.IsRecurring,
	}

	if rec.SeriesDateFrom != "" {
		if from, err := ParseRemoteDate(rec.SeriesDateFrom); err == nil {
			quota.SeriesDateFrom = &from
		}
	}
	if rec.SeriesDateTo != "" {
		if to, err := ParseRemoteDate(rec.SeriesDateTo); err == nil {
			quota.SeriesDateTo = &to
		}
	}

	for _, cat := range rec.Categories {
		label, ok := models.BedCategoryLabel(cat.CategoryID.Int())
		if !ok {
			m.log.Warn("dropping unrecognized bed category", logger.Data{
				"category_code": cat.CategoryID.Int(),
				"remote_id":     rec.ID.Int(),
			})
			continue
		}
		quota.Categories = append(quota.Categories, &models.QuotaCategory{
			CategoryCode: label,
			BedCount:     cat.TotalBeds.Int(),
		})
	}
	for _, lang := range rec.Languages {
		quota.Languages = append(quota.Languages, &models.QuotaLanguage{
			Language:    strings.TrimSpace(lang.Language),
			Description: strings.TrimSpace(lang.Description),
		})
	}

	return quota, nil
}

// MapDailySummary converts one remote day object. The (hut, day) pair is
// the identity, so a day without a parseable date is rejected.
func (m *Mapper) MapDailySummary(rec DailySummaryRecord, hutID int) (*models.DailySummary, error) {
	day, err := ParseRemoteDate(rec.Date)
	if err != nil {
		return nil, errors.Wrap(err, "invalid summary date")
	}

	summary := &models.DailySummary{
		HutID:          hutID,
		Day:            day,
		ArrivingGuests: rec.ArrivingGuests.Int(),
		TotalGuests:    rec.TotalGuests.Int(),
		HalfBoard:      rec.HalfBoard,
		Vegetarians:    rec.Vegetarians.Int(),
		Children:       rec.Children.Int(),
		MountainGuides: rec.MountainGuides.Int(),
		WaitingList:    rec.WaitingList,
	}

	for _, cat := range rec.Categories {
		label, ok := models.BedCategoryLabel(cat.CategoryID.Int())
		if !ok {
			m.log.Warn("dropping unrecognized bed category", logger.Data{
				"category_code": cat.CategoryID.Int(),
				"day":           day,
			})
			continue
		}
		summary.Categories = append(summary.Categories, &models.DailySummaryCategory{
			CategoryCode:   label,
			FreePlaces:     cat.FreePlaces.Int(),
			AssignedGuests: cat.AssignedGuests.Int(),
			OccupancyPct:   cat.OccupancyPct,
		})
	}

	return summary, nil
}

// guestName joins the name parts the way the reservation book lists
// guests: family name first.
func guestName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(last) + " " + strings.TrimSpace(first))
}

func mapReservationStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CANCELLED", "STORNO":
		return models.ReservationStatusCancelled
	case "CHECKED_IN":
		return models.ReservationStatusCheckedIn
	default:
		return models.ReservationStatusOpen
	}
}

func parseQuotaMode(mode string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case models.QuotaModeServiced:
		return models.QuotaModeServiced, nil
	case models.QuotaModeUnserviced:
		return models.QuotaModeUnserviced, nil
	case models.QuotaModeClosed:
		return models.QuotaModeClosed, nil
	default:
		return "", errors.Errorf("unrecognized quota mode %q", mode)
	}
}
