package remote

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// FlexInt decodes from a JSON number, a numeric string, or null. The
// remote system is not consistent about which it sends for ids and
// counts.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WithStack(err)
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.WithStack(err)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.WithStack(err)
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}

// ReservationRecord is one entry of the remote reservation list. Dates
// are dd.mm.yyyy strings.
type ReservationRecord struct {
	ReservationNumber FlexInt                     `json:"reservationNumber"`
	CheckinDate       string                      `json:"checkinDate"`
	CheckoutDate      string                      `json:"checkoutDate"`
	FirstName         string                      `json:"firstName"`
	LastName          string                      `json:"lastName"`
	Email             string                      `json:"email"`
	PhoneNumber       string                      `json:"phoneNumber"`
	Comment           string                      `json:"comment"`
	ArrivalTime       string                      `json:"arrivalTime"`
	HalfBoard         bool                        `json:"halfBoard"`
	Status            string                      `json:"status"`
	Categories        []ReservationCategoryRecord `json:"categories"`
}

type ReservationCategoryRecord struct {
	CategoryID FlexInt `json:"categoryId"`
	Amount     FlexInt `json:"amount"`
}

// reservationListEnvelope supports both response shapes the remote
// reservation list endpoint has been observed to return.
type reservationListEnvelope struct {
	Embedded *struct {
		ReservationList              []ReservationRecord `json:"reservationList"`
		ReservationsDataModelDTOList []ReservationRecord `json:"reservationsDataModelDTOList"`
	} `json:"_embedded"`
}

// records returns whichever list the envelope carried, and whether a
// known key was present at all.
func (e *reservationListEnvelope) records() ([]ReservationRecord, bool) {
	if e.Embedded == nil {
		return nil, false
	}
	if e.Embedded.ReservationList != nil {
		return e.Embedded.ReservationList, true
	}
	if e.Embedded.ReservationsDataModelDTOList != nil {
		return e.Embedded.ReservationsDataModelDTOList, true
	}
	return nil, false
}

// QuotaRecord is one bed-capacity rule from the hutQuota endpoint.
type QuotaRecord struct {
	ID               FlexInt               `json:"id"`
	DateFrom         string                `json:"dateFrom"`
	DateTo           string                `json:"dateTo"`
	Title            string                `json:"title"`
	Mode             string                `json:"mode"`
	Capacity         FlexInt               `json:"capacity"`
	Monday           bool                  `json:"monday"`
	Tuesday          bool                  `json:"tuesday"`
	Wednesday        bool                  `json:"wednesday"`
	Thursday         bool                  `json:"thursday"`
	Friday           bool                  `json:"friday"`
	Saturday         bool                  `json:"saturday"`
	Sunday           bool                  `json:"sunday"`
	RecurrenceLength FlexInt               `json:"recurrenceLength"`
	SeriesDateFrom   string                `json:"seriesDateFrom"`
	SeriesDateTo     string                `json:"seriesDateTo"`
	IsRecurring      bool                  `json:"isRecurring"`
	Categories       []QuotaCategoryRecord `json:"categories"`
	Languages        []QuotaLanguageRecord `json:"languagesDataList"`
}

type QuotaCategoryRecord struct {
	CategoryID FlexInt `json:"categoryId"`
	TotalBeds  FlexInt `json:"totalBeds"`
}

type QuotaLanguageRecord struct {
	Language    string `json:"language"`
	Description string `json:"description"`
}

type quotaEnvelope struct {
	Embedded struct {
		BedCapacityChangeResponseDTOList []QuotaRecord `json:"bedCapacityChangeResponseDTOList"`
	} `json:"_embedded"`
	Page struct {
		TotalPages int `json:"totalPages"`
		Number     int `json:"number"`
	} `json:"page"`
}

// DailySummaryRecord is one day object from the dailySummary endpoint.
type DailySummaryRecord struct {
	Date           string                       `json:"date"`
	ArrivingGuests FlexInt                      `json:"arrivingGuests"`
	TotalGuests    FlexInt                      `json:"totalGuests"`
	HalfBoard      bool                         `json:"halfBoard"`
	Vegetarians    FlexInt                      `json:"vegetarians"`
	Children       FlexInt                      `json:"children"`
	MountainGuides FlexInt                      `json:"mountainGuides"`
	WaitingList    bool                         `json:"waitingList"`
	Categories     []DailySummaryCategoryRecord `json:"categories"`
}

type DailySummaryCategoryRecord struct {
	CategoryID     FlexInt `json:"categoryId"`
	FreePlaces     FlexInt `json:"freePlaces"`
	AssignedGuests FlexInt `json:"assignedGuests"`
	OccupancyPct   float64 `json:"percentOccupied"`
}
