package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
	"github.com/dmitrijs2005/guestwifi/internal/server/services"
)

const maxBodyBytes = 1 << 20

type deviceRequest struct {
	Serial string `json:"serial" validate:"required,serial"`
	Email  string `json:"email" validate:"required,email"`
}

type checkInRequest struct {
	FirstName    string `json:"firstName" validate:"required,alphaunicode"`
	LastName     string `json:"lastName" validate:"required,alphaunicode"`
	GuestEmail   string `json:"guestEmail" validate:"required,email"`
	Organization string `json:"organization" validate:"notblank"`
	HostEmail    string `json:"hostEmail" validate:"required,email"`
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return common.BadRequest("")
	}
	return nil
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := validateRequest(s.validate, req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.opts.Devices.Enroll(r.Context(), req.Serial, req.Email); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := validateRequest(s.validate, req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.opts.Devices.Unenroll(r.Context(), req.Serial, req.Email); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	serial := mux.Vars(r)["serial"]
	if err := validateRequest(s.validate, struct {
		Serial string `json:"serial" validate:"required,serial"`
	}{serial}); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	state, err := s.opts.Devices.Get(r.Context(), serial)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := validateRequest(s.validate, req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	err := s.opts.CheckIns.CheckIn(r.Context(), services.CheckIn{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		GuestEmail:   req.GuestEmail,
		Organization: req.Organization,
		HostEmail:    req.HostEmail,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleWebhook always acknowledges; the sender does not read error
// bodies, so failures are only logged.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.log.Error(ctx, "webhook body read failed", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := s.opts.Webhooks.Handle(ctx, body, r.Header.Get(webex.SignatureHeader)); err != nil {
		s.log.Error(ctx, "webhook handling failed", "kind", common.KindOf(err).String(), "error", err)
	}
	w.WriteHeader(http.StatusOK)
}
