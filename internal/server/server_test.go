package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"harvesthaven/internal/config"
	"harvesthaven/internal/database"
	"harvesthaven/internal/domain"
	"harvesthaven/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testApp struct {
	t      *testing.T
	server *Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("file:"+t.Name()+"?mode=memory&cache=shared", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		AppEnv:      "test",
		HTTPAddr:    ":0",
		DatabaseURL: "memory",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		Payment: config.PaymentConfig{
			Provider:     config.PaymentUPI,
			ListingFee:   499,
			UPIVPA:       "harvesthaven@upi",
			UPIPayeeName: "Harvest Haven",
		},
	}

	srv, err := New(cfg, db, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NoError(t, seed.Run(context.Background(), db, srv.Listings, zap.NewNop()))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &testApp{t: t, server: srv}
}

func (a *testApp) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type searchData struct {
	Properties []domain.Listing `json:"properties"`
	Count      int              `json:"count"`
	Message    string           `json:"message"`
}

type draftData struct {
	Draft   domain.SubmissionDraft      `json:"draft"`
	Payment *domain.PaymentInstructions `json:"payment"`
}

func listingIDs(ls []domain.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestSearch_DefaultCriteriaOverSeed(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(http.MethodGet, "/api/v1/properties", "", nil)

	require.Equal(t, http.StatusOK, code)
	data := decode[searchData](t, env.Data)
	assert.Equal(t, []string{"prop-1", "prop-2", "prop-3", "prop-4", "prop-5"}, listingIDs(data.Properties))
	assert.Empty(t, data.Message)
}

func TestSearch_NoMatches(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(http.MethodGet, "/api/v1/properties?location=atlantis", "", nil)

	require.Equal(t, http.StatusOK, code)
	data := decode[searchData](t, env.Data)
	assert.Empty(t, data.Properties)
	assert.Equal(t, "No properties match your search.", data.Message)
}

func TestPendingListingIsHiddenFromPublic(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(http.MethodGet, "/api/v1/properties/prop-6", "", nil)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSubmissionToApprovalFlow(t *testing.T) {
	app := newTestApp(t)
	host := app.login("john@example.com", "password123")

	code, env := app.do(http.MethodPost, "/api/v1/submissions", host, nil)
	require.Equal(t, http.StatusCreated, code)
	draftID := decode[draftData](t, env.Data).Draft.ID

	// untouched defaults fail validation
	code, env = app.do(http.MethodPost, "/api/v1/submissions/"+draftID+"/submit", host, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, _ = app.do(http.MethodPut, "/api/v1/submissions/"+draftID+"/form", host, map[string]any{
		"name":            "Mango Grove Retreat",
		"type":            "farmhouse",
		"location":        "Ratnagiri, Maharashtra",
		"price_per_night": "3500",
		"bedrooms":        3,
		"square_feet":     2200,
		"description":     "A farmhouse set inside an Alphonso mango orchard, a short drive from the sea.",
		"amenities":       []string{"wifi", "parking"},
	})
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodPost, "/api/v1/submissions/"+draftID+"/submit", host, nil)
	require.Equal(t, http.StatusOK, code)
	pay := decode[draftData](t, env.Data)
	assert.Equal(t, domain.StagePayment, pay.Draft.Stage)
	require.NotNil(t, pay.Payment)
	assert.Equal(t, 499, pay.Payment.Amount)
	assert.Contains(t, pay.Payment.URI, "upi://pay?")

	code, _ = app.do(http.MethodPost, "/api/v1/submissions/"+draftID+"/payment", host, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodPost, "/api/v1/submissions/"+draftID+"/commit", host, map[string]string{"reference": "ABC123"})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "INVALID_REFERENCE", env.Error.Code)

	code, env = app.do(http.MethodPost, "/api/v1/submissions/"+draftID+"/commit", host, map[string]string{"reference": "ABCDEFGHIJKL"})
	require.Equal(t, http.StatusCreated, code)
	committed := decode[struct {
		Listing domain.Listing `json:"listing"`
	}](t, env.Data)
	newID := committed.Listing.ID
	assert.Equal(t, domain.ListingPending, committed.Listing.Status)
	assert.Equal(t, "user-1", committed.Listing.OwnerID)

	// not public until approved
	_, env = app.do(http.MethodGet, "/api/v1/properties", "", nil)
	assert.NotContains(t, listingIDs(decode[searchData](t, env.Data).Properties), newID)

	_, env = app.do(http.MethodGet, "/api/v1/me/properties", host, nil)
	assert.Contains(t, string(env.Data), newID)

	code, env = app.do(http.MethodPost, "/api/v1/admin/properties/"+newID+"/approve", host, nil)
	assert.Equal(t, http.StatusForbidden, code)

	admin := app.login("admin@harvesthaven.in", "admin12345")
	code, _ = app.do(http.MethodPost, "/api/v1/admin/properties/"+newID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodPost, "/api/v1/admin/properties/"+newID+"/reject", admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NOT_PENDING", env.Error.Code)

	_, env = app.do(http.MethodGet, "/api/v1/properties", "", nil)
	assert.Contains(t, listingIDs(decode[searchData](t, env.Data).Properties), newID)
}

func TestContactRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	code, _ := app.do(http.MethodGet, "/api/v1/properties/prop-1/contact", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	jane := app.login("jane@example.com", "password456")
	code, env := app.do(http.MethodGet, "/api/v1/properties/prop-1/contact", jane, nil)
	require.Equal(t, http.StatusOK, code)

	contact := decode[struct {
		Contact struct {
			OwnerName     string `json:"owner_name"`
			OwnerPhone    string `json:"owner_phone"`
			ContactURL    string `json:"contact_url"`
			DirectionsURL string `json:"directions_url"`
		} `json:"contact"`
	}](t, env.Data).Contact
	assert.Equal(t, "John Doe", contact.OwnerName)
	assert.Equal(t, "919876543210", contact.OwnerPhone)
	assert.Equal(t, "https://wa.me/919876543210", contact.ContactURL)
	assert.Contains(t, contact.DirectionsURL, "query=Nashik%2C+Maharashtra")

	// the public detail page never carries the phone
	_, env = app.do(http.MethodGet, "/api/v1/properties/prop-1", "", nil)
	assert.NotContains(t, string(env.Data), "919876543210")

	code, _ = app.do(http.MethodGet, "/api/v1/properties/prop-6/contact", jane, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOwnerDelete(t *testing.T) {
	app := newTestApp(t)
	jane := app.login("jane@example.com", "password456")

	code, env := app.do(http.MethodDelete, "/api/v1/me/properties/prop-1", jane, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	john := app.login("john@example.com", "password123")
	code, _ = app.do(http.MethodDelete, "/api/v1/me/properties/prop-1", john, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(http.MethodGet, "/api/v1/properties/prop-1", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRegisterAndMe(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "Asha",
		"last_name":  "Patil",
		"email":      "asha@example.com",
		"password":   "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token

	code, env = app.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Asha Patil")

	code, env = app.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "Other",
		"last_name":  "Person",
		"email":      "JOHN@example.com",
		"password":   "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EMAIL_TAKEN", env.Error.Code)
}

func TestAdminStats(t *testing.T) {
	app := newTestApp(t)
	admin := app.login("admin@harvesthaven.in", "admin12345")

	code, env := app.do(http.MethodGet, "/api/v1/admin/stats", admin, nil)

	require.Equal(t, http.StatusOK, code)
	stats := decode[map[string]int](t, env.Data)
	assert.Equal(t, 3, stats["total_users"])
	assert.Equal(t, 6, stats["total_properties"])
	assert.Equal(t, 1, stats["pending_properties"])
	assert.Equal(t, 5, stats["approved_properties"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	w := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `listing_events_total{type="listing.appended"} 6`)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
