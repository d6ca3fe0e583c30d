package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Parameters ─────────────────────────────────────────────────────────────

type parameterRequest struct {
	ParameterName  string `json:"parameterName,omitempty"`
	ParameterValue string `json:"parameterValue"`
}

func (s *Server) handleParameterInsert(w http.ResponseWriter, r *http.Request) {
	var req parameterRequest
	if err := decodeStrict(w, r, "parameter", &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Parameters.Insert(r.Context(), req.ParameterName, req.ParameterValue)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleParameterFind(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Parameters.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleParameterListActive(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Parameters.ListActive(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleParameterUpdate(w http.ResponseWriter, r *http.Request) {
	var req parameterRequest
	if err := decodeStrict(w, r, "parameter", &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := chi.URLParam(r, "name")
	if req.ParameterName != "" && req.ParameterName != name {
		s.writeError(w, r, domain.Validationf("parameter", "parameterName %q does not match path %q", req.ParameterName, name))
		return
	}
	p, err := s.svc.Parameters.Update(r.Context(), name, req.ParameterValue)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleParameterDelete(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Parameters.Delete(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
