package summaries

import (
	"net/http"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	summaryService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListDailySummariesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	summaries, err := h.summaryService.ListDailySummaries(ctx, ListDailySummariesOptions{
		HutID:    params.HutID,
		DateFrom: params.DateFrom,
		DateTo:   params.DateTo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Summaries []*models.DailySummary `json:"summaries"`
	}{summaries}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
