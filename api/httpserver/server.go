// Package httpserver adapts the order service to a JSON HTTP API.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"matchbook/domain/book"
	"matchbook/service"
)

// Server holds the router, the order service, and request counters.
type Server struct {
	svc       *service.OrderService
	router    *mux.Router
	startTime time.Time

	ordersReceived atomic.Int64
	ordersRejected atomic.Int64
	fillsExecuted  atomic.Int64
}

func New(svc *service.OrderService) *Server {
	s := &Server{
		svc:       svc,
		router:    mux.NewRouter(),
		startTime: time.Now(),
	}
	s.registerRoutes()
	return s
}

// Router exposes the handler for an http.Server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/book", s.handleGetBook).Methods("GET")
	api.HandleFunc("/spread", s.handleGetSpread).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
}

// SubmitOrderRequest is the JSON request body. Omitting price submits
// a market instruction.
type SubmitOrderRequest struct {
	Side     string `json:"side"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price,omitempty"`
}

type fillJSON struct {
	Qty   int64 `json:"qty"`
	Price int64 `json:"price"`
}

// SubmitOrderResponse carries the fill report. Error is set alongside
// the partial report when a market instruction ran out of liquidity.
type SubmitOrderResponse struct {
	Seq       uint64     `json:"seq"`
	Requested int64      `json:"requested"`
	Filled    int64      `json:"filled"`
	Notional  int64      `json:"notional"`
	AvgPrice  float64    `json:"avg_price"`
	Rested    int64      `json:"rested"`
	Fills     []fillJSON `json:"fills"`
	Error     string     `json:"error,omitempty"`
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	s.ordersReceived.Add(1)

	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, "invalid JSON body")
		return
	}

	var side book.Side
	switch req.Side {
	case "buy":
		side = book.Bid
	case "sell":
		side = book.Ask
	default:
		s.reject(w, "side must be \"buy\" or \"sell\"")
		return
	}

	res, err := s.svc.Execute(service.Command{
		Side:  side,
		Qty:   req.Quantity,
		Price: req.Price,
	})
	if err != nil && !errors.Is(err, book.ErrInsufficientLiquidity) {
		s.reject(w, err.Error())
		return
	}

	s.fillsExecuted.Add(int64(len(res.Report.Fills)))

	resp := SubmitOrderResponse{
		Seq:       res.Seq,
		Requested: res.Report.Requested,
		Filled:    res.Report.Filled,
		Notional:  res.Report.Notional,
		AvgPrice:  res.Report.AvgPrice,
		Rested:    res.Report.Rested(),
		Fills:     make([]fillJSON, 0, len(res.Report.Fills)),
	}
	for _, f := range res.Report.Fills {
		resp.Fills = append(resp.Fills, fillJSON{Qty: f.Qty, Price: f.Price})
	}
	if err != nil {
		resp.Error = "insufficient liquidity"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) reject(w http.ResponseWriter, msg string) {
	s.ordersRejected.Add(1)
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// BookResponse mirrors the console ladder: top levels per side plus
// the spread, or a one-sided marker.
type BookResponse struct {
	Bids      []book.LevelSnapshot `json:"bids"`
	Asks      []book.LevelSnapshot `json:"asks"`
	SpreadBps *float64             `json:"spread_bps,omitempty"`
	OneSided  bool                 `json:"one_sided,omitempty"`
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	n := 5
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "depth must be a positive integer"})
			return
		}
		n = parsed
	}

	bids, asks := s.svc.Depth(n)
	resp := BookResponse{Bids: bids, Asks: asks}
	if spread, err := s.svc.Spread(); err == nil {
		resp.SpreadBps = &spread
	} else {
		resp.OneSided = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSpread(w http.ResponseWriter, r *http.Request) {
	spread, err := s.svc.Spread()
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]bool{"one_sided": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"spread_bps": spread})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"orders_received": s.ordersReceived.Load(),
		"orders_rejected": s.ordersRejected.Load(),
		"fills_executed":  s.fillsExecuted.Load(),
		"last_seq":        s.svc.Seq(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
