// Package booking implements the barbershop booking widget: a three step
// month → day → barber flow that ends in an availability lookup.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/internal/presenter"
)

var (
	ErrInvalidMonth  = errors.New("booking: month must be between 1 and 12")
	ErrInvalidDay    = errors.New("booking: day is not an available choice")
	ErrInvalidBarber = errors.New("booking: barber is required")
	ErrInvalidStep   = errors.New("booking: can only go back to the month or day step")
	ErrStepOrder     = errors.New("booking: step not reached yet")
	ErrNotFound      = errors.New("booking: session not found")
)

// Step is one of the three sequential stages of the flow.
type Step int

const (
	StepMonth  Step = 1
	StepDay    Step = 2
	StepBarber Step = 3
)

func (s Step) String() string {
	switch s {
	case StepMonth:
		return "month"
	case StepDay:
		return "day"
	case StepBarber:
		return "barber"
	default:
		return "unknown"
	}
}

// ParseStep accepts either the numeric or the textual form.
func ParseStep(raw string) (Step, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "1", "month":
		return StepMonth, nil
	case "2", "day":
		return StepDay, nil
	case "3", "barber":
		return StepBarber, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStep, raw)
}

// Selection is the in-progress choice. Month and Day are two-digit strings.
type Selection struct {
	Month string `json:"month"`
	Day   string `json:"day"`
	Year  int    `json:"year"`
}

// ISODate returns YYYY-MM-DD for the selection.
func (s Selection) ISODate() string {
	return fmt.Sprintf("%04d-%s-%s", s.Year, s.Month, s.Day)
}

// State is the whole widget, owned by one session and passed through every
// operation.
type State struct {
	ID        string         `json:"id"`
	Selection Selection      `json:"selection"`
	Step      Step           `json:"step"`
	Days      []DayChoice    `json:"days,omitempty"`
	Barber    string         `json:"barber,omitempty"`
	LookupSeq uint64         `json:"lookup_seq"`
	Result    *agenda.Result `json:"result,omitempty"`
	Display   presenter.View `json:"display"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewState starts a widget at the month step with the year defaulted to now.
func NewState(id string, now time.Time) *State {
	s := &State{
		ID:        id,
		Selection: Selection{Year: now.Year()},
		Step:      StepMonth,
		CreatedAt: now,
	}
	s.Display = s.stepView(StepMonth)
	return s
}

// SelectMonth sets the month, regenerates the day choices and moves to the
// day step.
func (s *State) SelectMonth(month int, now time.Time) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	if s.Selection.Year == 0 {
		s.Selection.Year = now.Year()
	}
	s.Selection.Month = twoDigits(month)
	s.Days = DayChoices(s.Selection.Year, time.Month(month), now)
	s.Step = StepDay
	s.LookupSeq++
	s.Display = s.stepView(StepDay)
	return nil
}

// SelectDay records a day from the current choices and moves to the barber step.
func (s *State) SelectDay(day int) error {
	if s.Step < StepDay {
		return fmt.Errorf("%w: select a month first", ErrStepOrder)
	}
	choice, ok := s.choice(day)
	if !ok || !choice.Selectable {
		return fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	s.Selection.Day = choice.Label
	s.Step = StepBarber
	s.LookupSeq++
	s.Display = s.stepView(StepBarber)
	return nil
}

// BeginLookup validates the barber, shows the loading state and returns the
// query plus the sequence number the eventual result must match.
func (s *State) BeginLookup(barber string) (agenda.Query, uint64, error) {
	if s.Step != StepBarber {
		return agenda.Query{}, 0, fmt.Errorf("%w: select a day first", ErrStepOrder)
	}
	barber = strings.TrimSpace(barber)
	if barber == "" {
		return agenda.Query{}, 0, ErrInvalidBarber
	}
	q := agenda.Query{Barber: barber, Date: s.Selection.ISODate()}
	if err := q.Validate(); err != nil {
		return agenda.Query{}, 0, err
	}
	s.Barber = barber
	s.LookupSeq++
	s.Result = nil
	s.Display = presenter.Loading("Consultando agenda",
		fmt.Sprintf("Buscando horários de %s em %s...", barber, agenda.DisplayDate(q.Date)))
	return q, s.LookupSeq, nil
}

// CompleteLookup applies res when seq is still the latest issued lookup and
// reports whether it did. Superseded results are dropped.
func (s *State) CompleteLookup(seq uint64, res agenda.Result) bool {
	if seq != s.LookupSeq {
		return false
	}
	s.Result = &res
	s.Display = res.View()
	return true
}

// GoBack returns to the month or day step and restores its message. Chosen
// day and barber are left in place.
func (s *State) GoBack(target Step) error {
	if target != StepMonth && target != StepDay {
		return fmt.Errorf("%w: %s", ErrInvalidStep, target)
	}
	if target > s.Step {
		return fmt.Errorf("%w: %s", ErrStepOrder, target)
	}
	s.Step = target
	s.LookupSeq++
	s.Display = s.stepView(target)
	return nil
}

func (s *State) choice(day int) (DayChoice, bool) {
	for _, c := range s.Days {
		if c.Day == day {
			return c, true
		}
	}
	return DayChoice{}, false
}

func (s *State) stepView(step Step) presenter.View {
	switch step {
	case StepDay:
		month, _ := strconv.Atoi(s.Selection.Month)
		return presenter.Present(presenter.KindInfo, "Escolha o dia",
			fmt.Sprintf("Selecione um dia de %s de %d.", MonthName(month), s.Selection.Year))
	case StepBarber:
		return presenter.Present(presenter.KindInfo, "Escolha o barbeiro",
			fmt.Sprintf("Selecione o barbeiro para %s.", agenda.DisplayDate(s.Selection.ISODate())))
	default:
		return presenter.Present(presenter.KindInfo, "Escolha o mês", "Selecione o mês do seu atendimento.")
	}
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the Portuguese month name for 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

func twoDigits(n int) string {
	return fmt.Sprintf("%02d", n)
}
