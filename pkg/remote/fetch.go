package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const (
	// quotaPageCap bounds the pagination loop against a server that
	// keeps reporting more pages.
	quotaPageCap = 10
	// dailySummaryStride is how far the cursor advances per call. The
	// endpoint answers with a 10-day window starting one day before the
	// requested date.
	dailySummaryStride = 10
	// dailySummaryCallCap bounds the daily-summary loop.
	dailySummaryCallCap = 24
	// pagePause throttles consecutive page requests.
	pagePause = time.Second

	remoteDateLayout = "02.01.2006"
)

// Fetcher pulls paginated data sets from the remote system over an
// authenticated session.
type Fetcher struct {
	session  *Session
	pageSize int
	sleep    func(time.Duration)
	log      logger.Logger
}

func NewFetcher(session *Session, pageSize int) *Fetcher {
	return &Fetcher{
		session:  session,
		pageSize: pageSize,
		sleep:    time.Sleep,
		log:      logger.New(),
	}
}

// FetchReservations requests one page of the reservation list. There is
// no pagination loop; callers ask for the page they want and the page
// size is the only bound.
func (f *Fetcher) FetchReservations(ctx context.Context, hutID int, dateFrom, dateTo time.Time, page int) ([]ReservationRecord, error) {
	query := url.Values{}
	query.Set("hutId", strconv.Itoa(hutID))
	query.Set("researchFilter", "")
	query.Set("status", "ALL")
	query.Set("dateFrom", dateFrom.Format(remoteDateLayout))
	query.Set("dateTo", dateTo.Format(remoteDateLayout))
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(f.pageSize))
	query.Set("sortList", "BookingDate")
	query.Set("sortOrder", "DESC")
	path := "/api/v1/manage/reservation/list?" + query.Encode()

	resp, err := f.session.Client().Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: "/api/v1/manage/reservation/list", StatusCode: resp.StatusCode}
	}

	var envelope reservationListEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, &DecodeError{Path: "/api/v1/manage/reservation/list", Err: err}
	}
	records, found := envelope.records()
	if !found {
		// Neither of the two known embedded keys was present. Treat it
		// as an empty answer rather than guessing a third shape.
		f.log.Warn("reservation list response had no known embedded key", logger.Data{"hut_id": hutID})
	}
	return records, nil
}

// FetchQuotas walks the hutQuota pages for a rolling date window of the
// given number of months. It follows the server's page counter up to a
// hard cap, pausing between pages. A page that fails to decode ends the
// sequence; pages collected before it are returned.
func (f *Fetcher) FetchQuotas(ctx context.Context, hutID int, from time.Time, months int) ([]QuotaRecord, error) {
	to := from.AddDate(0, months, 0)
	quotas := make([]QuotaRecord, 0)
	f.log.Info("fetching quotas", logger.Data{"hut_id": hutID, "window": windowLabel(from, to)})

	for page := 0; ; page++ {
		if page >= quotaPageCap {
			f.log.Warn("quota pagination cap reached", logger.Data{"hut_id": hutID, "pages": page})
			break
		}
		if page > 0 {
			f.sleep(pagePause)
		}

		query := url.Values{}
		query.Set("hutId", strconv.Itoa(hutID))
		query.Set("page", strconv.Itoa(page))
		query.Set("size", strconv.Itoa(f.pageSize))
		query.Set("sortList", "DateFrom")
		query.Set("sortOrder", "ASC")
		query.Set("open", "true")
		query.Set("dateFrom", from.Format(remoteDateLayout))
		query.Set("dateTo", to.Format(remoteDateLayout))
		path := "/api/v1/manage/hutQuota?" + query.Encode()

		resp, err := f.session.Client().Do(ctx, http.MethodGet, path, nil, nil)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Path: "/api/v1/manage/hutQuota", StatusCode: resp.StatusCode}
		}

		var envelope quotaEnvelope
		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			f.log.Err(&DecodeError{Path: "/api/v1/manage/hutQuota", Err: err}).
				Warn("quota page decode failed; keeping pages collected so far", logger.Data{"page": page})
			break
		}

		quotas = append(quotas, envelope.Embedded.BedCapacityChangeResponseDTOList...)

		if envelope.Page.Number >= envelope.Page.TotalPages-1 {
			break
		}
	}

	return quotas, nil
}

// FetchDailySummaries advances a date cursor in 10-day strides until the
// end date is passed, accumulating day objects. Duplicate days can occur
// at window edges because the server's window starts one day before the
// requested date; callers deduplicate during mapping or reconciliation.
func (f *Fetcher) FetchDailySummaries(ctx context.Context, hutID int, from, to time.Time) ([]DailySummaryRecord, error) {
	summaries := make([]DailySummaryRecord, 0)
	cursor := from

	for call := 0; !cursor.After(to); call++ {
		if call >= dailySummaryCallCap {
			f.log.Warn("daily summary call cap reached", logger.Data{"hut_id": hutID, "calls": call})
			break
		}
		if call > 0 {
			f.sleep(pagePause)
		}

		query := url.Values{}
		query.Set("hutId", strconv.Itoa(hutID))
		query.Set("dateFrom", cursor.Format(remoteDateLayout))
		path := "/api/v1/manage/reservation/dailySummary?" + query.Encode()

		resp, err := f.session.Client().Do(ctx, http.MethodGet, path, nil, nil)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Path: "/api/v1/manage/reservation/dailySummary", StatusCode: resp.StatusCode}
		}

		var days []DailySummaryRecord
		if err := json.Unmarshal(resp.Body, &days); err != nil {
			f.log.Err(&DecodeError{Path: "/api/v1/manage/reservation/dailySummary", Err: err}).
				Warn("daily summary decode failed; keeping days collected so far", logger.Data{"cursor": cursor.Format(remoteDateLayout)})
			break
		}

		summaries = append(summaries, days...)
		cursor = cursor.AddDate(0, 0, dailySummaryStride)
	}

	return summaries, nil
}

// windowLabel is a small helper for log output of a fetch window.
func windowLabel(from, to time.Time) string {
	return fmt.Sprintf("%s..%s", from.Format(remoteDateLayout), to.Format(remoteDateLayout))
}
