package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/validate"
)

// DoctorService is the doctor directory
type DoctorService interface {
	Register(ctx context.Context, in validate.DoctorInput) (model.Doctor, error)
	Get(ctx context.Context, id uuid.UUID) (model.Doctor, error)
	Nearby(ctx context.Context, lat, lon float64, maxMiles int) ([]model.NearbyDoctor, error)
}

// DoctorHandler handles the doctor directory endpoints
type DoctorHandler struct {
	doctors      DoctorService
	gate         *validate.Gate
	log          *zap.Logger
	storeTimeout time.Duration
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(doctors DoctorService, gate *validate.Gate, log *zap.Logger, storeTimeout time.Duration) *DoctorHandler {
	return &DoctorHandler{
		doctors:      doctors,
		gate:         gate,
		log:          log,
		storeTimeout: storeTimeout,
	}
}

type doctorResponse struct {
	ID          string  `json:"id"`
	JobTitle    string  `json:"jobTitle"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsAvailable bool    `json:"isAvailable"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
}

// nearbyResponse is a doctor with its distance in miles from the query point
type nearbyResponse struct {
	doctorResponse
	Distance float64 `json:"distance"`
}

func newDoctorResponse(d model.Doctor) doctorResponse {
	return doctorResponse{
		ID:          d.ID.String(),
		JobTitle:    d.JobTitle,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		IsAvailable: d.IsAvailable,
		Email:       d.Email,
		Phone:       d.Phone,
	}
}

// HandleRegister handles POST /doctors
func (h *DoctorHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	fields, err := validate.FromJSON(r.Body)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}
	in, err := h.gate.Doctor(fields)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	doctor, err := h.doctors.Register(ctx, in)
	if err != nil {
		h.log.Info("doctor registration failed",
			zap.String("email", maskEmail(in.Email)),
			zap.String("phone", maskPhone(in.Phone)),
			zap.Error(err),
		)
		respondWithErr(w, h.log, err)
		return
	}

	h.log.Info("doctor registered", zap.String("doctor_id", doctor.ID.String()))
	respondJSON(w, http.StatusOK, newDoctorResponse(doctor))
}

// HandleGet handles GET /doctors/{id} (protected)
func (h *DoctorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := h.gate.DoctorID(validate.Fields{"id": chi.URLParam(r, "id")})
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	doctor, err := h.doctors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondWithError(w, http.StatusUnprocessableEntity, "doctor not found")
			return
		}
		respondWithErr(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, newDoctorResponse(doctor))
}

// HandleNearby handles GET /doctors/nearby (protected)
func (h *DoctorHandler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	in, err := h.gate.Nearby(validate.FromQuery(r.URL.Query()))
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	nearby, err := h.doctors.Nearby(ctx, in.Latitude, in.Longitude, in.Distance)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	response := make([]nearbyResponse, 0, len(nearby))
	for _, n := range nearby {
		response = append(response, nearbyResponse{
			doctorResponse: newDoctorResponse(n.Doctor),
			Distance:       n.DistanceMiles,
		})
	}
	respondJSON(w, http.StatusOK, response)
}
