package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Accounts ───────────────────────────────────────────────────────────────

type accountRequest struct {
	AccountNameOwner string `json:"accountNameOwner"`
	AccountType      string `json:"accountType"`
	Moniker          string `json:"moniker,omitempty"`
	ActiveStatus     *bool  `json:"activeStatus,omitempty"`
}

func (s *Server) handleAccountInsert(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeStrict(w, r, "account", &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	active := req.ActiveStatus == nil || *req.ActiveStatus
	a, err := s.svc.Accounts.CreateWithStatus(r.Context(), domain.Account{
		AccountNameOwner: req.AccountNameOwner,
		AccountType:      domain.AccountType(req.AccountType),
		Moniker:          req.Moniker,
	}, active)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleAccountFind(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Accounts.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAccountListActive(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Accounts.ListActive(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAccountActivate(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Accounts.Activate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAccountDeactivate(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Accounts.Deactivate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAccountRecompute(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Accounts.RecomputeTotals(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Accounts.Delete(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ─── Reports ────────────────────────────────────────────────────────────────

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Report.TotalsByState(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleAccountTotals(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Report.AccountTotals(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handlePaymentRequired(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Report.PaymentRequired(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleOpenItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Report.OpenItems(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
