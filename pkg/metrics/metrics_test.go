package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/items/:id", "204"))
	unmatched := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/items/:id", "204")))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
