package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/internal/booking"
	"github.com/doisellos/storefront/internal/presenter"
	"github.com/doisellos/storefront/pkg/logging"
)

// BookingHandler exposes the booking widget over HTTP.
type BookingHandler struct {
	service *booking.Service
	logger  *logging.Logger
}

func NewBookingHandler(service *booking.Service, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{service: service, logger: logger}
}

// Routes mounts the session endpoints.
func (h *BookingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Start)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/display", h.Display)
		r.Post("/month", h.SelectMonth)
		r.Post("/day", h.SelectDay)
		r.Post("/barber", h.SelectBarber)
		r.Post("/back", h.GoBack)
	})
	return r
}

type stateResponse struct {
	ID         string              `json:"id"`
	Step       string              `json:"step"`
	StepNumber int                 `json:"step_number"`
	Selection  booking.Selection   `json:"selection"`
	Days       []booking.DayChoice `json:"days,omitempty"`
	Barber     string              `json:"barber,omitempty"`
	Result     *agenda.Result      `json:"result,omitempty"`
	Display    presenter.View      `json:"display"`
}

func toResponse(st *booking.State) stateResponse {
	return stateResponse{
		ID:         st.ID,
		Step:       st.Step.String(),
		StepNumber: int(st.Step),
		Selection:  st.Selection,
		Days:       st.Days,
		Barber:     st.Barber,
		Result:     st.Result,
		Display:    st.Display,
	}
}

func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Start(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(st))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

// Display returns the status region as an HTML fragment.
func (h *BookingHandler) Display(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	html, err := presenter.Render(st.Display)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(html))
}

type selectRequest struct {
	Month  fieldValue `json:"month"`
	Day    fieldValue `json:"day"`
	Barber string     `json:"barber"`
	Step   fieldValue `json:"step"`
}

// fieldValue accepts a JSON string ("03", "day") or number (3). Clients echo
// back the two-digit labels the API hands out.
type fieldValue string

func (v *fieldValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = fieldValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = fieldValue(n.String())
	return nil
}

func decodeSelect(r *http.Request) (selectRequest, error) {
	var req selectRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Month = fieldValue(r.FormValue("month"))
	req.Day = fieldValue(r.FormValue("day"))
	req.Barber = r.FormValue("barber")
	req.Step = fieldValue(r.FormValue("step"))
	return req, nil
}

func parseInt(v fieldValue, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return n, nil
}

func (h *BookingHandler) SelectMonth(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSelect(r)
	if err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	month, err := parseInt(req.Month, "month")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.service.SelectMonth(r.Context(), chi.URLParam(r, "sessionID"), month)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *BookingHandler) SelectDay(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSelect(r)
	if err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	day, err := parseInt(req.Day, "day")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.service.SelectDay(r.Context(), chi.URLParam(r, "sessionID"), day)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *BookingHandler) SelectBarber(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSelect(r)
	if err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	st, err := h.service.SelectBarber(r.Context(), chi.URLParam(r, "sessionID"), req.Barber)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *BookingHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSelect(r)
	if err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	step, err := booking.ParseStep(string(req.Step))
	if err != nil {
		h.fail(w, err)
		return
	}
	st, err := h.service.GoBack(r.Context(), chi.URLParam(r, "sessionID"), step)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *BookingHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		jsonError(w, "booking session not found", http.StatusNotFound)
	case errors.Is(err, booking.ErrStepOrder):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, booking.ErrInvalidMonth),
		errors.Is(err, booking.ErrInvalidDay),
		errors.Is(err, booking.ErrInvalidBarber),
		errors.Is(err, booking.ErrInvalidStep),
		errors.Is(err, agenda.ErrInvalidQuery):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("booking request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
