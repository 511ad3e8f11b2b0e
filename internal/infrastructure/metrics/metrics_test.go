package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGinMiddleware_RecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Register()
	Register()

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/v1/sales/:sale_id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/v1/sales/:sale_id", "404"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/sales/"+id, nil))
	}
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("/v1/sales/:sale_id", "404"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", after-before)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if testutil.ToFloat64(HTTPRequests.WithLabelValues("unmatched", "404")) < 1 {
		t.Fatalf("expected unmatched route to be recorded")
	}
}
