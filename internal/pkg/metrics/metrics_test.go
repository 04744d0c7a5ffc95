package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"harvesthaven/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/properties/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, id := range []string{"prop-1", "prop-2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties/"+id, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/properties/:id", "404")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StatusCodeCategory.WithLabelValues("4xx")))
}

func TestObserveTransitionAndListingEvent(t *testing.T) {
	m := New()

	m.ObserveTransition("submit", nil)
	m.ObserveTransition("submit", errors.New("invalid"))
	m.ObserveTransition("submit", errors.New("invalid"))
	m.ObserveListingEvent(domain.ListingEvent{Type: domain.ListingAppended})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SubmissionTransitions.WithLabelValues("submit", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SubmissionTransitions.WithLabelValues("submit", "rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListingEvents.WithLabelValues("listing.appended")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveListingEvent(domain.ListingEvent{Type: domain.ListingRemoved})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `listing_events_total{type="listing.removed"} 1`)
}
