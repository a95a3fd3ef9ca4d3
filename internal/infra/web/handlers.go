package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"subscription-api/internal/domain"
	"subscription-api/internal/domain/model"
)

type subscribeRequest struct {
	PlanID string `json:"plan_id"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	sub, err := s.subUC.Subscribe(r.Context(), userIDFrom(r.Context()), req.PlanID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) renewHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subUC.Renew(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) switchPlanHandler(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	sub, err := s.subUC.SwitchPlan(r.Context(), userIDFrom(r.Context()), req.PlanID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	// body is optional on cancel
	_ = json.NewDecoder(r.Body).Decode(&req)

	sub, err := s.subUC.Cancel(r.Context(), userIDFrom(r.Context()), req.Reason)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) activeHandler(w http.ResponseWriter, r *http.Request) {
	proj, err := s.queryUC.Active(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		// "no active subscription" is a normal state for this read, not a 404
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, ok := queryInt(r, "page_size", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "page_size must be a positive integer")
		return
	}

	hist, err := s.queryUC.History(r.Context(), userIDFrom(r.Context()), page, pageSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (s *Server) plansListHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context(), true)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	byStatus, err := s.statsUC.CountByStatus(ctx)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	byPlan, err := s.statsUC.ActiveByPlan(ctx)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ByStatus     map[string]int `json:"subscriptions_by_status"`
		ActiveByPlan map[string]int `json:"active_by_plan"`
	}{
		ByStatus:     statusKeys(byStatus),
		ActiveByPlan: byPlan,
	})
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrPlanNotAvailable):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}

// queryInt parses an optional positive integer query parameter. The second
// return value is false when the parameter is present but malformed.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func statusKeys(in map[model.SubscriptionStatus]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}
