package apistub

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservation-client/internal/model"
)

// listAll handles GET /reservations: the public, unauthenticated list
// of every reservation in server order.
func (s *Server) listAll(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListReservations())
}

// listByUser handles GET /reservations/user/:id.  The path id must
// match the token's subject; a viewer can only list their own
// reservations.
func (s *Server) listByUser(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id != caller {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, s.store.ListByUser(id))
}

// filter handles GET /reservations/filter.  All four query parameters
// are required: username, serviceTitle, startDate and endDate, the
// dates as "YYYY-MM-DD".  The endpoint is public and the date bounds
// are inclusive.
func (s *Server) filter(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	title := strings.TrimSpace(c.QueryParam("serviceTitle"))
	startStr := c.QueryParam("startDate")
	endStr := c.QueryParam("endDate")
	if username == "" || title == "" || startStr == "" || endStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, serviceTitle, startDate and endDate are required"})
	}
	start, err := model.ParseReservationDate(startStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate"})
	}
	end, err := model.ParseReservationDate(endStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endDate"})
	}
	if start.After(end) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate cannot be after endDate"})
	}
	return c.JSON(http.StatusOK, s.store.FilterReservations(username, title, start, end))
}

// draftBody is the JSON body of create and update requests.  It mirrors
// the client's ReservationDraft.
type draftBody struct {
	UserID             string `json:"userId"`
	ReservationDate    string `json:"reservationDate"`
	ReservationDetails string `json:"reservationDetails"`
	ServiceTitle       string `json:"serviceTitle"`
}

// bindDraft decodes and validates a draft body.  The date may be either
// a bare "YYYY-MM-DD" (the create contract) or a full RFC 3339 instant
// (the update contract); both are accepted everywhere and reduced to
// day precision by the store.  The body's userId must name the caller:
// a viewer can only create or modify reservations as themselves.
func bindDraft(c echo.Context, caller uint64) (draftBody, bool) {
	var body draftBody
	if err := c.Bind(&body); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return body, false
	}
	if strings.TrimSpace(body.ServiceTitle) == "" || strings.TrimSpace(body.ReservationDetails) == "" || body.ReservationDate == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "serviceTitle, reservationDetails and reservationDate are required"})
		return body, false
	}
	uid, err := strconv.ParseUint(body.UserID, 10, 64)
	if err != nil || uid == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid userId"})
		return body, false
	}
	if uid != caller {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return body, false
	}
	if _, err := model.ParseReservationDate(body.ReservationDate); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservationDate"})
		return body, false
	}
	return body, true
}

// create handles POST /reservations.
func (s *Server) create(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	body, ok := bindDraft(c, caller)
	if !ok {
		return nil // response already written by bindDraft
	}
	date, _ := model.ParseReservationDate(body.ReservationDate)
	res, err := s.store.CreateReservation(caller, date, body.ReservationDetails, body.ServiceTitle)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusCreated, res)
}

// update handles PUT /reservations/:id.  Only the owner may update.
func (s *Server) update(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	body, ok := bindDraft(c, caller)
	if !ok {
		return nil
	}
	date, _ := model.ParseReservationDate(body.ReservationDate)
	res, err := s.store.UpdateReservation(id, caller, date, body.ReservationDetails, body.ServiceTitle)
	if err != nil {
		switch err {
		case ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// remove handles DELETE /reservations/:id.  Only the owner may delete.
func (s *Server) remove(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := s.store.DeleteReservation(id, caller); err != nil {
		switch err {
		case ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete reservation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
