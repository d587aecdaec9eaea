package reservations

import (
	"net/http"
	"strconv"

	"github.com/huettenbuch/huettenbuch/pkg/errcodes"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	reservationService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListReservationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reservations, total, err := h.reservationService.ListReservationsWithTotal(ctx, ListReservationsOptions{
		Limit:            &params.Limit,
		Offset:           &params.Offset,
		HutID:            params.HutID,
		DateFrom:         params.DateFrom,
		DateTo:           params.DateTo,
		IncludeCancelled: params.IncludeCancelled,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Reservations []*models.Reservation `json:"reservations"`
		Total        int                   `json:"total"`
	}{reservations, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reservation")
	}

	reservation, err := h.reservationService.RetrieveReservation(ctx, RetrieveReservationOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, reservation))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateReservationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.DateTo < params.DateFrom {
		return errcodes.ValidationError("date_to must not be before date_from")
	}

	reservation := &models.Reservation{
		HutID:         params.HutID,
		DateFrom:      params.DateFrom,
		DateTo:        params.DateTo,
		GuestName:     params.GuestName,
		Email:         params.Email,
		Phone:         params.Phone,
		Comment:       params.Comment,
		ArrivalTime:   params.ArrivalTime,
		HalfBoard:     params.HalfBoard,
		BedsDormitory: params.BedsDormitory,
		BedsMultiBed:  params.BedsMultiBed,
		BedsTwoBed:    params.BedsTwoBed,
		BedsSpecial:   params.BedsSpecial,
	}

	err := h.reservationService.CreateReservation(ctx, reservation)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, reservation))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reservation")
	}

	params := UpdateReservationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reservation, err := h.reservationService.RetrieveReservation(ctx, RetrieveReservationOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	columns := []string{}
	if params.DateFrom != nil {
		reservation.DateFrom = *params.DateFrom
		columns = append(columns, "date_from")
	}
	if params.DateTo != nil {
		reservation.DateTo = *params.DateTo
		columns = append(columns, "date_to")
	}
	if params.GuestName != nil {
		reservation.GuestName = *params.GuestName
		columns = append(columns, "guest_name")
	}
	if params.Email != nil {
		reservation.Email = *params.Email
		columns = append(columns, "email")
	}
	if params.Phone != nil {
		reservation.Phone = *params.Phone
		columns = append(columns, "phone")
	}
	if params.Comment != nil {
		reservation.Comment = *params.Comment
		columns = append(columns, "comment")
	}
	if params.ArrivalTime != nil {
		reservation.ArrivalTime = *params.ArrivalTime
		columns = append(columns, "arrival_time")
	}
	if params.HalfBoard != nil {
		reservation.HalfBoard = *params.HalfBoard
		columns = append(columns, "half_board")
	}
	if params.Cancelled != nil {
		reservation.Cancelled = *params.Cancelled
		columns = append(columns, "cancelled")
	}
	if params.CheckedIn != nil {
		reservation.CheckedIn = *params.CheckedIn
		columns = append(columns, "checked_in")
	}
	if params.BedsDormitory != nil {
		reservation.BedsDormitory = *params.BedsDormitory
		columns = append(columns, "beds_dormitory")
	}
	if params.BedsMultiBed != nil {
		reservation.BedsMultiBed = *params.BedsMultiBed
		columns = append(columns, "beds_multi_bed")
	}
	if params.BedsTwoBed != nil {
		reservation.BedsTwoBed = *params.BedsTwoBed
		columns = append(columns, "beds_two_bed")
	}
	if params.BedsSpecial != nil {
		reservation.BedsSpecial = *params.BedsSpecial
		columns = append(columns, "beds_special")
	}

	if reservation.DateTo < reservation.DateFrom {
		return errcodes.ValidationError("date_to must not be before date_from")
	}

	err = h.reservationService.UpdateReservation(ctx, reservation, UpdateReservationOptions{Columns: columns})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, reservation))
}

func (h *handler) deleteReservation(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reservation")
	}

	// 404 for unknown ids, like every other resource.
	_, err = h.reservationService.RetrieveReservation(ctx, RetrieveReservationOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.reservationService.DeleteReservation(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
