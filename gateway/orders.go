package gateway

import (
	"net/http"

	"github.com/example/honeystore/pkg/metrics"
	"github.com/example/honeystore/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// createOrder godoc
// @Summary     Place an order
// @Description The total is computed server-side as the sum of unit_price × quantity, rounded to cents.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       order body     models.Order true "Order"
// @Success     201   {object} OrderCreatedResponse
// @Failure     400   {object} ValidationErrorResponse
// @Failure     500   {object} ErrorResponse
// @Router      /api/orders [post]
func (g *Gateway) createOrder(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	order, err := models.ParseOrder(body)
	if err != nil {
		g.respondError(c, err)
		return
	}

	store, err := g.documents()
	if err != nil {
		g.respondError(c, err)
		return
	}

	id, err := store.CreateDocument(c.Request.Context(), models.OrderCollection, order)
	if err != nil {
		g.respondError(c, err)
		return
	}
	metrics.DocumentsCreated.WithLabelValues(models.OrderCollection).Inc()
	metrics.OrderValue.Observe(order.Total)

	g.logger.Info("Order placed",
		zap.String("id", id),
		zap.Int("item_count", len(order.Items)),
		zap.Float64("total", order.Total))

	c.JSON(http.StatusCreated, OrderCreatedResponse{ID: id, Message: "Order placed", Total: order.Total})
}
