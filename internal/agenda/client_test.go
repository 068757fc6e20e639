package agenda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doisellos/storefront/internal/presenter"
	"github.com/doisellos/storefront/pkg/logging"
)

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveLookup(outcome string, _ float64) {
	r.outcomes = append(r.outcomes, outcome)
}

func newTestClient(t *testing.T, body string, status int) (*Client, *recordingObserver) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	obs := &recordingObserver{}
	logger := logging.New("error")
	return NewClient(NewHTTPFetcher(ts.URL, logger), obs, logger), obs
}

func TestLookup_AvailableSlotsKeepOrder(t *testing.T) {
	c, obs := newTestClient(t, `{"horarios":["09:00","10:00"]}`, http.StatusOK)

	res := c.Lookup(context.Background(), Query{Barber: "joao", Date: "2026-03-05"})

	assert.Equal(t, OutcomeAvailable, res.Outcome)
	assert.Equal(t, []string{"09:00", "10:00"}, res.Slots)
	assert.Equal(t, "05/03/2026", res.Date)
	assert.Equal(t, "joao", res.Barber)
	assert.Contains(t, res.Message, "05/03/2026")
	assert.Equal(t, []string{"available"}, obs.outcomes)

	view := res.View()
	assert.Equal(t, presenter.KindSuccess, view.Kind)
	assert.Equal(t, []string{"09:00", "10:00"}, view.Slots)
}

func TestLookup_SlotsAreNotSortedOrDeduplicated(t *testing.T) {
	c, _ := newTestClient(t, `{"horarios":["11:00","09:00","11:00"]}`, http.StatusOK)
	res := c.Lookup(context.Background(), Query{Barber: "b", Date: "2026-03-05"})
	assert.Equal(t, []string{"11:00", "09:00", "11:00"}, res.Slots)
}

func TestLookup_UpstreamErrorVerbatim(t *testing.T) {
	c, _ := newTestClient(t, `{"erro":"barbeiro indisponível"}`, http.StatusOK)

	res := c.Lookup(context.Background(), Query{Barber: "joao", Date: "2026-03-05"})

	assert.Equal(t, OutcomeUpstreamError, res.Outcome)
	assert.Equal(t, "barbeiro indisponível", res.Message)
	assert.True(t, res.IsError())
	assert.Equal(t, presenter.KindError, res.View().Kind)
	assert.Equal(t, "barbeiro indisponível", res.View().Message)
}

func TestLookup_EmptyListIsWarning(t *testing.T) {
	for _, body := range []string{`{"horarios":[]}`, `{}`} {
		c, _ := newTestClient(t, body, http.StatusOK)
		res := c.Lookup(context.Background(), Query{Barber: "joao", Date: "2026-03-05"})

		assert.Equal(t, OutcomeNoAvailability, res.Outcome, body)
		assert.False(t, res.IsError())
		assert.Contains(t, res.Message, "joao")
		assert.Contains(t, res.Message, "05/03/2026")
		assert.Equal(t, presenter.KindWarning, res.View().Kind)
	}
}

func TestLookup_ConnectionFailureHasOwnMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()
	obs := &recordingObserver{}
	c := NewClient(NewHTTPFetcher(url, logging.New("error")), obs, logging.New("error"))

	res := c.Lookup(context.Background(), Query{Barber: "joao", Date: "2026-03-05"})

	assert.Equal(t, OutcomeConnectionError, res.Outcome)
	view := res.View()
	assert.Equal(t, presenter.KindError, view.Kind)
	assert.Equal(t, "Erro de conexão", view.Title)
	assert.NotEqual(t, "Erro na agenda", view.Title)
	assert.Equal(t, []string{"connection_error"}, obs.outcomes)
}

func TestLookup_Non2xxIsConnectionFailure(t *testing.T) {
	c, _ := newTestClient(t, `{"erro":"should not be shown"}`, http.StatusInternalServerError)
	res := c.Lookup(context.Background(), Query{Barber: "joao", Date: "2026-03-05"})
	assert.Equal(t, OutcomeConnectionError, res.Outcome)
	assert.NotEqual(t, "should not be shown", res.Message)
}

func TestLookup_NilFetcher(t *testing.T) {
	c := NewClient(nil, nil, nil)
	res := c.Lookup(context.Background(), Query{Barber: "joao", Date: "2026-03-05"})
	assert.Equal(t, OutcomeConnectionError, res.Outcome)
}

func TestFromPayload_PrefersUpstreamBarberAndDate(t *testing.T) {
	res := FromPayload(Query{Barber: "1", Date: "2026-03-05"}, &Payload{
		Barbeiro: "Carlos",
		Data:     "2026-03-06",
		Horarios: []string{"14:00"},
	})
	assert.Equal(t, "Carlos", res.Barber)
	assert.Equal(t, "06/03/2026", res.Date)
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "31/12/2026", DisplayDate("2026-12-31"))
	assert.Equal(t, "garbage", DisplayDate("garbage"))
}

func TestQueryValidate(t *testing.T) {
	require.NoError(t, Query{Barber: "b", Date: "2026-02-28"}.Validate())
	assert.ErrorIs(t, Query{Barber: "", Date: "2026-02-28"}.Validate(), ErrInvalidQuery)
	assert.ErrorIs(t, Query{Barber: "b", Date: "28/02/2026"}.Validate(), ErrInvalidQuery)
}
