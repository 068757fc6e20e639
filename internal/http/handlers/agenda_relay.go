package handlers

import (
	"net/http"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/pkg/logging"
)

// RelayObserver records relay outcomes by status code.
type RelayObserver interface {
	ObserveRelay(status int)
}

// AgendaRelayHandler forwards agenda lookups to the booking provider and
// returns its JSON body unchanged.
type AgendaRelayHandler struct {
	fetcher  agenda.Fetcher
	observer RelayObserver
	logger   *logging.Logger
}

func NewAgendaRelayHandler(fetcher agenda.Fetcher, observer RelayObserver, logger *logging.Logger) *AgendaRelayHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AgendaRelayHandler{fetcher: fetcher, observer: observer, logger: logger}
}

func (h *AgendaRelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := agenda.QueryFromValues(r.URL.Query().Get)
	status, body := agenda.Relay(r.Context(), h.fetcher, q)
	if status != http.StatusOK {
		h.logger.Warn("agenda relay failed", "barbeiro", q.Barber, "data", q.Date)
	}
	if h.observer != nil {
		h.observer.ObserveRelay(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
