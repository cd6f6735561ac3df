package gateway

import (
	"net/http"

	"github.com/example/honeystore/pkg/metrics"
	"github.com/example/honeystore/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listProducts godoc
// @Summary     List products
// @Tags        products
// @Produce     json
// @Success     200 {array}  models.Product
// @Failure     500 {object} ErrorResponse
// @Router      /api/products [get]
func (g *Gateway) listProducts(c *gin.Context) {
	store, err := g.documents()
	if err != nil {
		g.respondError(c, err)
		return
	}

	docs, err := store.GetDocuments(c.Request.Context(), models.ProductCollection, 0)
	if err != nil {
		g.respondError(c, err)
		return
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := models.DecodeStoredProduct(d)
		if err != nil {
			g.respondError(c, err)
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, products)
}

// createProduct godoc
// @Summary     Create a product
// @Description Optional fields default to in_stock=true, rating=4.8, stock_qty=50.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       product body     models.Product true "Product"
// @Success     201     {object} CreatedResponse
// @Failure     400     {object} ValidationErrorResponse
// @Failure     500     {object} ErrorResponse
// @Router      /api/products [post]
func (g *Gateway) createProduct(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	product, err := models.ParseProduct(body)
	if err != nil {
		g.respondError(c, err)
		return
	}

	store, err := g.documents()
	if err != nil {
		g.respondError(c, err)
		return
	}

	id, err := store.CreateDocument(c.Request.Context(), models.ProductCollection, product)
	if err != nil {
		g.respondError(c, err)
		return
	}
	metrics.DocumentsCreated.WithLabelValues(models.ProductCollection).Inc()

	g.logger.Info("Product created", zap.String("id", id), zap.String("title", product.Title))
	c.JSON(http.StatusCreated, CreatedResponse{ID: id, Message: "Product created"})
}

// seedProducts godoc
// @Summary     Seed the default catalogue
// @Description Inserts four default products when the catalogue is empty; otherwise does nothing.
// @Tags        products
// @Produce     json
// @Success     201 {object} MessageResponse
// @Failure     500 {object} ErrorResponse
// @Router      /api/seed [post]
func (g *Gateway) seedProducts(c *gin.Context) {
	if _, err := g.documents(); err != nil {
		g.respondError(c, err)
		return
	}

	created, err := g.seeder.Seed(c.Request.Context())
	if created > 0 {
		metrics.DocumentsCreated.WithLabelValues(models.ProductCollection).Add(float64(created))
	}
	if err != nil {
		g.respondError(c, err)
		return
	}

	if created == 0 {
		c.JSON(http.StatusCreated, MessageResponse{Message: "Products already exist"})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Seeded default products"})
}
