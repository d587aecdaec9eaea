package quotas

import (
	"net/http"
	"strconv"

	"github.com/huettenbuch/huettenbuch/pkg/errcodes"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	quotaService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListQuotasQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	quotas, total, err := h.quotaService.ListQuotasWithTotal(ctx, ListQuotasOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		HutID:    params.HutID,
		DateFrom: params.DateFrom,
		DateTo:   params.DateTo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Quotas []*models.Quota `json:"quotas"`
		Total  int             `json:"total"`
	}{quotas, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Quota")
	}

	quota, err := h.quotaService.RetrieveQuota(ctx, RetrieveQuotaOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, quota))
}
