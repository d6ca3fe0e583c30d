package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearth-ledger/hearth/internal/app/reconcile"
)

// ─── Validation Amounts ─────────────────────────────────────────────────────

func (s *Server) handleValidationInsert(w http.ResponseWriter, r *http.Request) {
	sub, err := reconcile.DecodeSubmission(body(w, r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.svc.Reconcile.SubmitRequest(r.Context(), chi.URLParam(r, "name"), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleValidationSelect(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Reconcile.QueryByAccountAndState(r.Context(),
		chi.URLParam(r, "name"), chi.URLParam(r, "state"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleValidationLatest(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Reconcile.Latest(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "state"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleValidationListActive(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Reconcile.ListActive(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleValidationFind(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "validation_amount")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.svc.Reconcile.Find(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleValidationDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "validation_amount")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.svc.Reconcile.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
