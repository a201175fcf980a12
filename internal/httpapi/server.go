package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/service"
	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

type Dependencies struct {
	Logger     *log.Logger
	Addr       string
	Access     *service.AccessService
	Accountant *service.Accountant
	Decisions  store.DecisionStore
	Location   *time.Location
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	access     *service.AccessService
	accountant *service.Accountant
	decisions  store.DecisionStore
	loc        *time.Location
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Server{
		logger:     d.Logger,
		mux:        mux,
		access:     d.Access,
		accountant: d.Accountant,
		decisions:  d.Decisions,
		loc:        loc,
	}

	mux.HandleFunc("POST /v1/scan", s.handleScan)
	mux.HandleFunc("GET /v1/attendance/{identity}/daily", s.handleDaily)
	mux.HandleFunc("GET /v1/attendance/{identity}/monthly", s.handleMonthly)
	mux.HandleFunc("GET /v1/decisions", s.handleDecisions)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req types.ScanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.access.Evaluate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAccessPoint):
			writeError(w, http.StatusBadRequest, "invalid_access_point", err.Error())
			return
		case errors.Is(err, service.ErrInvalidBadgeToken):
			writeError(w, http.StatusBadRequest, "invalid_badge_token", err.Error())
			return
		case errors.Is(err, store.ErrNotFound):
			// Badge resolved but no staff record behind it.
			writeError(w, http.StatusNotFound, "unknown_identity", "no staff record for badge")
			return
		default:
			s.logger.Printf("scan error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")

	date := time.Now().In(s.loc)
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	summary, err := s.accountant.Summarize(r.Context(), identity, date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown_identity", "no staff record for identity")
			return
		}
		s.logger.Printf("daily summary error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		writeError(w, http.StatusBadRequest, "invalid_year", "year is required, e.g. year=2026")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_month", "month is required, e.g. month=8")
		return
	}

	report, err := s.accountant.MonthlySummary(r.Context(), identity, year, month)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMonth):
			writeError(w, http.StatusBadRequest, "invalid_month", err.Error())
			return
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "unknown_identity", "no staff record for identity")
			return
		default:
			s.logger.Printf("monthly summary error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be 1..1000")
			return
		}
		limit = n
	}

	recs, err := s.decisions.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Printf("decisions list error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if recs == nil {
		recs = []store.DecisionRecord{}
	}

	writeJSON(w, http.StatusOK, recs)
}
