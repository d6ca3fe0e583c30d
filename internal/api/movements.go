package api

import (
	"net/http"

	"github.com/hearth-ledger/hearth/internal/app/ledger"
)

// ─── Transfers ──────────────────────────────────────────────────────────────

func (s *Server) handleTransferInsert(w http.ResponseWriter, r *http.Request) {
	req, err := ledger.DecodeTransferRequest(body(w, r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Ledger.InsertTransfer(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleTransferFind(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "transfer")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Ledger.FindTransfer(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTransferDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "transfer")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Ledger.DeleteTransfer(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTransferList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Ledger.ListTransfers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTransferListActive(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Ledger.ListActiveTransfers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ─── Payments ───────────────────────────────────────────────────────────────

func (s *Server) handlePaymentInsert(w http.ResponseWriter, r *http.Request) {
	req, err := ledger.DecodePaymentRequest(body(w, r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Ledger.InsertPayment(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePaymentFind(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "payment")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Ledger.FindPayment(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePaymentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "payment")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Ledger.DeletePayment(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePaymentList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Ledger.ListPayments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePaymentListActive(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Ledger.ListActivePayments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
