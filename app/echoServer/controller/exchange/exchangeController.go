package exchange

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookswap/model"
	exchangesvc "bookswap/service/exchange"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc exchangesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/exchange-requests
// @Summary      List exchange requests
// @Description  Incoming and outgoing requests for the caller, each with book details
// @Tags         exchange-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/exchange-requests [get]
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("exchange list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/exchange-requests/create
// @Summary      Create exchange request
// @Tags         exchange-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  CreateExchangeReq  true  "Request payload"
// @Success      201  {object}  model.ExchangeRequest
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book not found"
// @Router       /v1/exchange-requests/create [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateExchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	er, err := h.Svc.Create(c.Request().Context(), uid, exchangesvc.CreateReq{
		BookID:           req.BookID,
		ReceiverID:       req.ReceiverID,
		DeliveryMethod:   req.DeliveryMethod,
		ExchangeDuration: req.ExchangeDuration,
	})
	if err != nil {
		if exchangesvc.Code(err) == exchangesvc.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("exchange create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, er)
}

// GET /v1/exchange-requests/:id
// @Summary      Get exchange request
// @Tags         exchange-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Request ID"
// @Success      200  {object}  model.ExchangeRequest
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/exchange-requests/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	er, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		switch exchangesvc.Code(err) {
		case exchangesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "exchange request not found"})
		case exchangesvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you are not authorized to view this request"})
		default:
			h.Log.Error("exchange detail error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, er)
}

// PUT /v1/exchange-requests/:id/update
// @Summary      Update exchange request status
// @Description  Receiver-only status transition (pending/accepted/rejected/modified)
// @Tags         exchange-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                true  "Request ID"
// @Param        payload  body  UpdateExchangeReq  true  "New status"
// @Success      200  {object}  model.ExchangeRequest
// @Failure      400  {object}  map[string]any "invalid status"
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/exchange-requests/{id}/update [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateExchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": echo.Map{"status": "required"}})
	}
	uid, _ := c.Get("user_id").(int64)

	er, err := h.Svc.UpdateStatus(c.Request().Context(), uid, id, model.ExchangeStatus(req.Status))
	if err != nil {
		switch exchangesvc.Code(err) {
		case exchangesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "exchange request not found"})
		case exchangesvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you can only update requests that were sent to you"})
		case exchangesvc.ErrInvalidStatus:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
		default:
			h.Log.Error("exchange update error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, er)
}

// DELETE /v1/exchange-requests/:id/delete
// @Summary      Delete exchange request
// @Description  Sender or receiver may end the negotiation
// @Tags         exchange-requests
// @Security     BearerAuth
// @Param        id  path  int  true  "Request ID"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/exchange-requests/{id}/delete [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		switch exchangesvc.Code(err) {
		case exchangesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "exchange request not found"})
		case exchangesvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you can only delete your own exchange requests"})
		default:
			h.Log.Error("exchange delete error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
