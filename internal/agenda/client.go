package agenda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doisellos/storefront/internal/presenter"
	"github.com/doisellos/storefront/pkg/logging"
)

// Observer records lookup outcomes. Implementations must be nil-safe.
type Observer interface {
	ObserveLookup(outcome string, seconds float64)
}

// Looker is what the booking widget depends on.
type Looker interface {
	Lookup(ctx context.Context, q Query) Result
}

// Client maps raw agenda payloads to presentation results.
type Client struct {
	fetcher  Fetcher
	logger   *logging.Logger
	observer Observer
}

// NewClient wraps a fetcher. observer may be nil.
func NewClient(fetcher Fetcher, observer Observer, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{fetcher: fetcher, logger: logger, observer: observer}
}

// Lookup performs one availability lookup. It never returns an error: every
// failure is folded into the Result so the caller can present it.
func (c *Client) Lookup(ctx context.Context, q Query) Result {
	start := time.Now()
	res := c.lookup(ctx, q)
	if c.observer != nil {
		c.observer.ObserveLookup(string(res.Outcome), time.Since(start).Seconds())
	}
	return res
}

func (c *Client) lookup(ctx context.Context, q Query) Result {
	if c.fetcher == nil {
		return connectionFailure(q)
	}
	payload, err := c.fetcher.Fetch(ctx, q)
	if err != nil {
		c.logger.Warn("agenda lookup failed", "barber", q.Barber, "date", q.Date, "error", err)
		return connectionFailure(q)
	}
	return FromPayload(q, payload)
}

// FromPayload classifies a decoded upstream payload.
func FromPayload(q Query, p *Payload) Result {
	if p == nil {
		return connectionFailure(q)
	}
	barber := strings.TrimSpace(p.Barbeiro)
	if barber == "" {
		barber = q.Barber
	}
	date := q.Date
	if strings.TrimSpace(p.Data) != "" {
		date = p.Data
	}
	res := Result{Barber: barber, Date: DisplayDate(date)}

	switch {
	case p.Erro != "":
		res.Outcome = OutcomeUpstreamError
		res.Message = p.Erro
	case len(p.Horarios) == 0:
		res.Outcome = OutcomeNoAvailability
		res.Message = fmt.Sprintf("Nenhum horário disponível para %s em %s.", res.Barber, res.Date)
	default:
		res.Outcome = OutcomeAvailable
		res.Slots = append([]string(nil), p.Horarios...)
		res.Message = fmt.Sprintf("Horários disponíveis com %s em %s:", res.Barber, res.Date)
	}
	return res
}

func connectionFailure(q Query) Result {
	return Result{
		Outcome: OutcomeConnectionError,
		Barber:  q.Barber,
		Date:    DisplayDate(q.Date),
		Message: "Não foi possível conectar à agenda. Verifique sua conexão e tente novamente.",
	}
}

// View turns a result into the presenter region content.
func (r Result) View() presenter.View {
	switch r.Outcome {
	case OutcomeAvailable:
		return presenter.Present(presenter.KindSuccess, "Horários disponíveis", r.Message).WithSlots(r.Slots)
	case OutcomeNoAvailability:
		return presenter.Present(presenter.KindWarning, "Sem horários", r.Message)
	case OutcomeUpstreamError:
		return presenter.Present(presenter.KindError, "Erro na agenda", r.Message)
	default:
		return presenter.Present(presenter.KindError, "Erro de conexão", r.Message)
	}
}
