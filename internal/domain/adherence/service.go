// Package adherence reconstruye estadísticas de cumplimiento a partir de
// la foto actual de medicamentos + tomas. No guarda nada propio: todo se
// re-deriva, así una recarga tras un cambio externo converge sola.
package adherence

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/doselog"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/schedule"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	meds *medications.Service
	logs *doselog.Service
	now  func() time.Time
}

func NewService(meds *medications.Service, logs *doselog.Service) *Service {
	return &Service{
		meds: meds,
		logs: logs,
		now:  time.Now,
	}
}

// Stats es el resumen de un día de calendario.
// IsEmpty distingue "no tocaba nada" (neutro) de "0% por incumplimiento".
// IsFuture permite al cliente pintar pendiente en vez de saltado.
type Stats struct {
	Date       time.Time
	Taken      int
	Total      int
	Percentage int
	IsEmpty    bool
	IsComplete bool
	IsFuture   bool
}

// MedStatus es el detalle por medicamento de un día.
type MedStatus struct {
	Medication medications.Medication
	Taken      bool
}

// scheduledFor decide si el medicamento cuenta para ese día:
// debe tocar por frecuencia, y si está archivado solo cuenta cuando
// existe la toma registrada ese día exacto. Así el archivado posterior
// no borra la adherencia pasada, pero tampoco genera "saltados".
func scheduledFor(m medications.Medication, date time.Time, logs map[string]bool) bool {
	if !schedule.IsDue(m, date) {
		return false
	}
	if m.IsArchived && !logs[doselog.Key(date, m.ID)] {
		return false
	}
	return true
}

func computeDay(meds []medications.Medication, logs map[string]bool, date, today time.Time) Stats {
	st := Stats{
		Date:     date,
		IsFuture: schedule.DaysSinceEpoch(date) > schedule.DaysSinceEpoch(today),
	}

	for _, m := range meds {
		if !scheduledFor(m, date, logs) {
			continue
		}
		st.Total++
		if logs[doselog.Key(date, m.ID)] {
			st.Taken++
		}
	}

	if st.Total == 0 {
		st.IsEmpty = true
		return st
	}

	st.Percentage = int(math.Round(100 * float64(st.Taken) / float64(st.Total)))
	st.IsComplete = st.Percentage == 100 && st.Taken > 0
	return st
}

func (s *Service) DayStats(ctx context.Context, userID household.UserID, date time.Time) (Stats, error) {
	meds := s.meds.ListByUser(ctx, userID)
	logs, err := s.logs.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	return computeDay(meds, logs, date, s.now()), nil
}

// DayDetail lista el estado por medicamento de un día. Los archivados
// aparecen solo si fueron tomados ese día.
func (s *Service) DayDetail(ctx context.Context, userID household.UserID, date time.Time) ([]MedStatus, error) {
	meds := s.meds.ListByUser(ctx, userID)
	logs, err := s.logs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	schedule.SortByTiming(meds)
	out := make([]MedStatus, 0)
	for _, m := range meds {
		if !scheduledFor(m, date, logs) {
			continue
		}
		out = append(out, MedStatus{
			Medication: m,
			Taken:      logs[doselog.Key(date, m.ID)],
		})
	}
	return out, nil
}

// HistoryForRange aplica el cálculo diario a cada día del rango, extremos
// incluidos.
func (s *Service) HistoryForRange(ctx context.Context, userID household.UserID, from, to time.Time) ([]Stats, error) {
	if to.Before(from) {
		return nil, ErrInvalidInput
	}
	meds := s.meds.ListByUser(ctx, userID)
	logs, err := s.logs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	out := make([]Stats, 0)
	for d := startOfDay(from); !d.After(startOfDay(to)); d = d.AddDate(0, 0, 1) {
		out = append(out, computeDay(meds, logs, d, today))
	}
	return out, nil
}

// MonthGrid es la grilla del mes para la vista de calendario: semanas
// completas empezando en lunes, incluyendo las colas de los meses vecinos.
func (s *Service) MonthGrid(ctx context.Context, userID household.UserID, month time.Time) ([]Stats, error) {
	y, m, _ := month.Date()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	return s.HistoryForRange(ctx, userID, backToMonday(monthStart), forwardToSunday(monthEnd))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func backToMonday(t time.Time) time.Time {
	diff := (int(t.Weekday()) + 6) % 7 // lunes=0 ... domingo=6
	return t.AddDate(0, 0, -diff)
}

func forwardToSunday(t time.Time) time.Time {
	diff := (7 - int(t.Weekday())) % 7
	return t.AddDate(0, 0, diff)
}
