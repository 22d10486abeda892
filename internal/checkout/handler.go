package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/t0mb36/veloApp-sub001/internal/api"
	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

type submitter interface {
	Submit(ctx context.Context, sessionID string, snap cart.Snapshot) (Order, error)
}

type Handler struct {
	service submitter
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Checkout godoc
// @Summary      Check out the cart
// @Description  Queues the current cart lines for payment and booking. The cart itself is left unchanged.
// @Tags         cart
// @Produce      json
// @Success      202  {object}  Order
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /cart/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	sess, ok := session.Require(c)
	if !ok {
		return
	}

	order, err := h.service.Submit(c.Request.Context(), sess.ID, sess.Cart.Snapshot())
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to submit order"})
		return
	}

	c.JSON(http.StatusAccepted, order)
}
