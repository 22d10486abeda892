package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/t0mb36/veloApp-sub001/internal/api"
	"github.com/t0mb36/veloApp-sub001/internal/availability"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrCoachNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
	case errors.Is(err, ErrServiceNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Service not found"})
	case errors.Is(err, ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Cart item not found"})
	case errors.Is(err, ErrContactOnly):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Coach manages their schedule directly, send a message to book"})
	case errors.Is(err, ErrSlotUnavailable):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Time slot is no longer available"})
	case errors.Is(err, ErrServiceInactive),
		errors.Is(err, ErrNoBundle),
		errors.Is(err, ErrNoSelection),
		errors.Is(err, ErrItemRejected):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.WithError(err).Error("booking request failed", "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

func (h *Handler) selector(c *gin.Context) (*availability.Selector, bool) {
	sess, ok := session.Require(c)
	if !ok {
		return nil, false
	}
	sel, err := h.service.Selector(c.Request.Context(), sess, c.Param("coachID"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sel, true
}

func selectionResponse(sel *availability.Selector) SelectionResponse {
	resp := SelectionResponse{
		Snapshot: sel.Snapshot(),
		Slots:    []catalog.AvailabilitySlot{},
	}
	if !resp.Date.IsZero() {
		resp.Slots = sel.SlotsForDate(resp.Date)
	}
	if selection, ok := sel.ResolveSelection(); ok {
		resp.Resolved = &selection
	}
	return resp
}

// GetSelection godoc
// @Summary      Current selection
// @Description  Returns the session's date, service and slot selection for a coach.
// @Tags         selection
// @Produce      json
// @Param        coachID  path      string  true  "Coach ID"
// @Success      200      {object}  SelectionResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/selection [get]
func (h *Handler) GetSelection(c *gin.Context) {
	sel, ok := h.selector(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, selectionResponse(sel))
}

// SetMonth godoc
// @Summary      Change viewed month
// @Tags         selection
// @Accept       json
// @Produce      json
// @Param        coachID  path      string           true  "Coach ID"
// @Param        request  body      SetMonthRequest  true  "Month as YYYY-MM"
// @Success      200      {object}  SelectionResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/selection/month [put]
func (h *Handler) SetMonth(c *gin.Context) {
	var req SetMonthRequest
	if !api.BindJSON(c, &req) {
		return
	}
	month, err := availability.ParseMonth(req.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid month"})
		return
	}

	sel, ok := h.selector(c)
	if !ok {
		return
	}
	sel.SetViewedMonth(month)
	c.JSON(http.StatusOK, selectionResponse(sel))
}

// SelectDate godoc
// @Summary      Choose a date
// @Description  Chooses a day and clears the chosen slot. Past days leave the selection unchanged.
// @Tags         selection
// @Accept       json
// @Produce      json
// @Param        coachID  path      string             true  "Coach ID"
// @Param        request  body      SelectDateRequest  true  "Date as YYYY-MM-DD"
// @Success      200      {object}  SelectionResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/selection/date [put]
func (h *Handler) SelectDate(c *gin.Context) {
	var req SelectDateRequest
	if !api.BindJSON(c, &req) {
		return
	}
	date, err := catalog.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date"})
		return
	}

	sel, ok := h.selector(c)
	if !ok {
		return
	}
	sel.SelectDate(date)
	c.JSON(http.StatusOK, selectionResponse(sel))
}

// SelectService godoc
// @Summary      Choose a service
// @Description  Chooses an active service and clears the chosen slot. Unknown or inactive services leave the selection unchanged.
// @Tags         selection
// @Accept       json
// @Produce      json
// @Param        coachID  path      string                true  "Coach ID"
// @Param        request  body      SelectServiceRequest  true  "Service"
// @Success      200      {object}  SelectionResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/selection/service [put]
func (h *Handler) SelectService(c *gin.Context) {
	var req SelectServiceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sel, ok := h.selector(c)
	if !ok {
		return
	}
	sel.SelectService(req.ServiceID)
	c.JSON(http.StatusOK, selectionResponse(sel))
}

// SelectSlot godoc
// @Summary      Choose a time
// @Description  Chooses a slot offered on the chosen date. Anything else leaves the selection unchanged.
// @Tags         selection
// @Accept       json
// @Produce      json
// @Param        coachID  path      string             true  "Coach ID"
// @Param        request  body      SelectSlotRequest  true  "Slot"
// @Success      200      {object}  SelectionResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/selection/slot [put]
func (h *Handler) SelectSlot(c *gin.Context) {
	var req SelectSlotRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sel, ok := h.selector(c)
	if !ok {
		return
	}
	sel.SelectSlot(req.SlotID)
	c.JSON(http.StatusOK, selectionResponse(sel))
}

// ClearSlot godoc
// @Summary      Clear the chosen time
// @Tags         selection
// @Produce      json
// @Param        coachID  path      string  true  "Coach ID"
// @Success      200      {object}  SelectionResponse
// @Router       /coaches/{coachID}/selection/slot [delete]
func (h *Handler) ClearSlot(c *gin.Context) {
	sel, ok := h.selector(c)
	if !ok {
		return
	}
	sel.ClearSlot()
	c.JSON(http.StatusOK, selectionResponse(sel))
}

// ListSlots godoc
// @Summary      Slots for a day
// @Description  Returns the unbooked slots on the given day, earliest first.
// @Tags         selection
// @Produce      json
// @Param        coachID  path      string  true  "Coach ID"
// @Param        date     query     string  true  "Date as YYYY-MM-DD"
// @Success      200      {array}   catalog.AvailabilitySlot
// @Failure      400      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/slots [get]
func (h *Handler) ListSlots(c *gin.Context) {
	date, err := catalog.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date"})
		return
	}

	sel, ok := h.selector(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sel.SlotsForDate(date))
}

// Calendar godoc
// @Summary      Month availability
// @Description  Per-day availability for a month. Defaults to the viewed month.
// @Tags         selection
// @Produce      json
// @Param        coachID  path      string  true   "Coach ID"
// @Param        month    query     string  false  "Month as YYYY-MM"
// @Success      200      {object}  CalendarResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/calendar [get]
func (h *Handler) Calendar(c *gin.Context) {
	var month availability.Month
	if raw := c.Query("month"); raw != "" {
		m, err := availability.ParseMonth(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid month"})
			return
		}
		month = m
	}

	sel, ok := h.selector(c)
	if !ok {
		return
	}
	if month == (availability.Month{}) {
		month = sel.Snapshot().ViewedMonth
	}
	c.JSON(http.StatusOK, CalendarResponse{Month: month, Days: sel.MonthAvailability(month)})
}

// AddSelection godoc
// @Summary      Add selection to cart
// @Description  Adds the resolved service and slot as a scheduled cart line, then clears the chosen slot.
// @Tags         selection
// @Produce      json
// @Param        coachID  path      string  true  "Coach ID"
// @Success      201      {object}  CartItemResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /coaches/{coachID}/selection/cart [post]
func (h *Handler) AddSelection(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}

	item, err := h.service.AddSelection(c.Request.Context(), sess, c.Param("coachID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CartItemResponse{Item: item, Cart: sess.Cart.Snapshot()})
}

// GetCart godoc
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cart.Snapshot
// @Router       /cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Cart.Snapshot())
}

// AddItem godoc
// @Summary      Add a service to the cart
// @Description  Adds one unit of a service, its bundle, or a specific slot. Matching lines merge.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request  body      AddServiceRequest  true  "Service to add"
// @Success      201      {object}  CartItemResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /cart/items [post]
func (h *Handler) AddItem(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}
	var req AddServiceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	item, err := h.service.AddService(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CartItemResponse{Item: item, Cart: sess.Cart.Snapshot()})
}

// UpdateQuantity godoc
// @Summary      Change line quantity
// @Description  Sets the quantity of a line. Zero or less removes it.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        itemID   path      string                 true  "Cart line ID"
// @Param        request  body      UpdateQuantityRequest  true  "New quantity"
// @Success      200      {object}  cart.Snapshot
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /cart/items/{itemID} [patch]
func (h *Handler) UpdateQuantity(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if !api.BindJSON(c, &req) {
		return
	}

	itemID := c.Param("itemID")
	if _, found := sess.Cart.Item(itemID); !found {
		respondError(c, ErrCartItemNotFound)
		return
	}
	sess.Cart.UpdateQuantity(itemID, *req.Quantity)
	c.JSON(http.StatusOK, sess.Cart.Snapshot())
}

// RemoveItem godoc
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        itemID  path      string  true  "Cart line ID"
// @Success      200     {object}  cart.Snapshot
// @Failure      404     {object}  api.ErrorResponse
// @Router       /cart/items/{itemID} [delete]
func (h *Handler) RemoveItem(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}

	itemID := c.Param("itemID")
	if _, found := sess.Cart.Item(itemID); !found {
		respondError(c, ErrCartItemNotFound)
		return
	}
	sess.Cart.RemoveItem(itemID)
	c.JSON(http.StatusOK, sess.Cart.Snapshot())
}

// ClearCart godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cart.Snapshot
// @Router       /cart [delete]
func (h *Handler) ClearCart(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}
	sess.Cart.ClearCart()
	c.JSON(http.StatusOK, sess.Cart.Snapshot())
}

// OpenCart godoc
// @Summary      Show the cart drawer
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cart.Snapshot
// @Router       /cart/open [post]
func (h *Handler) OpenCart(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}
	sess.Cart.OpenCart()
	c.JSON(http.StatusOK, sess.Cart.Snapshot())
}

// CloseCart godoc
// @Summary      Hide the cart drawer
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cart.Snapshot
// @Router       /cart/close [post]
func (h *Handler) CloseCart(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}
	sess.Cart.CloseCart()
	c.JSON(http.StatusOK, sess.Cart.Snapshot())
}
