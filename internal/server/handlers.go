package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/model"
	"ZoneDCA/internal/optimizer"
	"ZoneDCA/internal/recorder"
	"ZoneDCA/internal/reporting"
)

// maxBody bounds request bodies; ten years of daily bars fit comfortably.
const maxBody = 8 << 20

// inlineRequest carries everything a backtest needs. Curve takes precedence
// over Zones; with neither, a curve of Degree is fitted to Days.
type inlineRequest struct {
	Symbol string              `json:"symbol"`
	Days   []model.MarketDay   `json:"days"`
	Curve  *model.Curve        `json:"curve,omitempty"`
	Zones  *model.DayLevels    `json:"zones,omitempty"`
	Degree int                 `json:"degree,omitempty"`
	Asset  *model.AssetProfile `json:"asset,omitempty"`
	Params backtest.Params     `json:"params"`
}

type runResponse struct {
	RunID  string           `json:"run_id"`
	Result *backtest.Result `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"uptime_sec": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleInlineBacktest(w http.ResponseWriter, r *http.Request) {
	var req inlineRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	curve := req.Curve
	switch {
	case curve != nil:
	case req.Zones != nil:
		curve = model.ConstantCurve(len(req.Days), *req.Zones)
	default:
		degree := req.Degree
		if degree <= 0 {
			degree = 2
		}
		fitted, err := calculator.BuildCurve(req.Days, degree, s.bands, s.method)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "fit curve: "+err.Error())
			return
		}
		curve = fitted
	}

	asset := model.AssetProfile{Symbol: req.Symbol}
	if req.Asset != nil {
		asset = *req.Asset
	}
	res, err := backtest.Run(backtest.Input{
		Symbol: req.Symbol,
		Days:   req.Days,
		Curve:  curve,
		Asset:  asset,
		Params: req.Params,
	})
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleSymbolBacktest collects fresh data for the symbol. An empty body runs
// with the configured parameters.
func (s *Server) handleSymbolBacktest(w http.ResponseWriter, r *http.Request) {
	params := s.svc.Params()
	if r.ContentLength != 0 {
		var override backtest.Params
		if err := decode(r, &override); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if override.TotalBudget != 0 {
			params.TotalBudget = override.TotalBudget
		}
		if override.Years != 0 {
			params.Years = override.Years
		}
		if override.ZoneMultiplier != 0 {
			params.ZoneMultiplier = override.ZoneMultiplier
		}
		if override.ActiveTakeProfit != nil {
			params.ActiveTakeProfit = override.ActiveTakeProfit
		}
	}

	out, err := s.svc.RunWithParams(r.Context(), chi.URLParam(r, "symbol"), "api", params)
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runResponse{RunID: out.RunID, Result: out.Result})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Optimize(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		if errors.Is(err, optimizer.ErrNoResult) && rep != nil {
			s.writeJSON(w, http.StatusUnprocessableEntity, rep)
			return
		}
		s.writeRunError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.svc.Position(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pos)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := s.svc.Runs(r.URL.Query().Get("symbol"), limit)
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.svc.Trades(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		s.writeCSV(w, func(w io.Writer) error { return reporting.WriteTradesCSV(w, trades) })
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleRunLots(w http.ResponseWriter, r *http.Request) {
	lots, err := s.svc.Lots(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		s.writeCSV(w, func(w io.Writer) error { return reporting.WriteLotsCSV(w, lots) })
		return
	}
	s.writeJSON(w, http.StatusOK, lots)
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeRunError maps domain errors to HTTP statuses.
func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backtest.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, recorder.ErrRunNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeCSV(w http.ResponseWriter, fn func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/csv")
	if err := fn(w); err != nil {
		s.log.Error().Err(err).Msg("failed to encode CSV response")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
