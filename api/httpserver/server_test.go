package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/domain/book"
	"matchbook/service"
)

func newTestServer() (*Server, *service.OrderService) {
	svc := service.New(book.New(), nil)
	return New(svc), svc
}

func postOrder(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestSubmitLimitOrderRests(t *testing.T) {
	s, svc := newTestServer()

	rec := postOrder(t, s, `{"side":"buy","quantity":5,"price":8}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SubmitOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.Seq)
	assert.Equal(t, int64(0), resp.Filled)
	assert.Equal(t, int64(5), resp.Rested)
	assert.Empty(t, resp.Error)

	bids, _ := svc.Depth(5)
	require.Len(t, bids, 1)
	assert.Equal(t, int64(8), bids[0].Price)
}

func TestSubmitCrossingOrderReportsFills(t *testing.T) {
	s, _ := newTestServer()

	postOrder(t, s, `{"side":"sell","quantity":3,"price":10}`)
	rec := postOrder(t, s, `{"side":"buy","quantity":3,"price":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SubmitOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Filled)
	assert.Equal(t, 10.0, resp.AvgPrice)
	require.Len(t, resp.Fills, 1)
	assert.Equal(t, int64(3), resp.Fills[0].Qty)
}

func TestSubmitMarketOrderInsufficientLiquidity(t *testing.T) {
	s, _ := newTestServer()

	postOrder(t, s, `{"side":"sell","quantity":2,"price":10}`)
	rec := postOrder(t, s, `{"side":"buy","quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SubmitOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient liquidity", resp.Error)
	assert.Equal(t, int64(2), resp.Filled)
}

func TestSubmitOrderValidation(t *testing.T) {
	s, _ := newTestServer()

	cases := []string{
		`not json`,
		`{"side":"hold","quantity":5}`,
		`{"side":"buy","quantity":0,"price":8}`,
		`{"side":"buy","quantity":5,"price":-1}`,
	}
	for _, body := range cases {
		rec := postOrder(t, s, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestGetBook(t *testing.T) {
	s, _ := newTestServer()
	postOrder(t, s, `{"side":"buy","quantity":5,"price":10}`)
	postOrder(t, s, `{"side":"sell","quantity":4,"price":12}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/book?depth=3", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bids, 1)
	require.Len(t, resp.Asks, 1)
	require.NotNil(t, resp.SpreadBps)
	assert.InDelta(t, 20.0, *resp.SpreadBps, 1e-9)
}

func TestGetBookBadDepth(t *testing.T) {
	s, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/book?depth=zero", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpreadOneSided(t *testing.T) {
	s, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/spread", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "one_sided")
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer()
	postOrder(t, s, `{"side":"buy","quantity":5,"price":8}`)
	postOrder(t, s, `{"side":"buy","quantity":0,"price":8}`)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.EqualValues(t, 2, metrics["orders_received"])
	assert.EqualValues(t, 1, metrics["orders_rejected"])
}
