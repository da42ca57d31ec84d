// Package schedule decide qué medicamentos corresponden en una fecha dada.
// Es lógica pura: sin reloj propio, sin estado, sin I/O.
package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
)

// Epoch es la fecha de referencia fija para la paridad de los días alternos.
// Se compara por día de calendario; la hora se ignora siempre.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DaysSinceEpoch devuelve días enteros de calendario entre la época y la
// fecha. Dos instantes del mismo día dan siempre el mismo valor,
// independientemente de la hora o la zona del time.Time recibido.
func DaysSinceEpoch(date time.Time) int {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(day.Sub(Epoch).Hours() / 24)
}

// IsDue indica si la toma corresponde en esa fecha según la frecuencia.
// Los dos turnos alternos se resuelven contra la misma paridad global:
// el turno A va en días pares desde la época, el B en los impares.
func IsDue(m medications.Medication, date time.Time) bool {
	switch m.Frequency {
	case medications.FrequencyAlternate:
		return DaysSinceEpoch(date)%2 == 0
	case medications.FrequencyAlternateOdd:
		return DaysSinceEpoch(date)%2 != 0
	default:
		return true
	}
}

// DailyPlan filtra los medicamentos de un usuario que tocan hoy
// (no archivados y con frecuencia activa) y los ordena por franja horaria.
func DailyPlan(meds []medications.Medication, date time.Time) []medications.Medication {
	out := make([]medications.Medication, 0)
	for _, m := range meds {
		if m.IsArchived {
			continue
		}
		if !IsDue(m, date) {
			continue
		}
		out = append(out, m)
	}
	SortByTiming(out)
	return out
}

// Franjas del día, en el orden del plan. El texto del timing es libre,
// así que se clasifica por palabra clave; lo no reconocido va al final.
const (
	slotBreakfast = iota
	slotMorning
	slotLunch
	slotAfternoon
	slotAwayFromMeals
	slotLateAfternoon
	slotEvening
	slotNight
	slotUnknown
)

func timingSlot(timing string) int {
	t := strings.ToLower(strings.TrimSpace(timing))
	switch {
	case strings.Contains(t, "colazione"):
		return slotBreakfast
	case strings.Contains(t, "mattina"):
		return slotMorning
	case strings.Contains(t, "pranzo"):
		return slotLunch
	case strings.Contains(t, "pomeriggio"):
		return slotAfternoon
	case strings.Contains(t, "lontano dai pasti"):
		return slotAwayFromMeals
	case strings.Contains(t, "17"):
		// "Entro le 17:00" y variantes
		return slotLateAfternoon
	case strings.Contains(t, "cena"), strings.Contains(t, "sera"):
		return slotEvening
	case strings.Contains(t, "notte"), strings.Contains(t, "prima di dormire"):
		return slotNight
	}
	return slotUnknown
}

// SortByTiming ordena por franja horaria y, a igual franja, por nombre
// (sin distinguir mayúsculas) para que el plan sea estable.
func SortByTiming(meds []medications.Medication) {
	sort.SliceStable(meds, func(i, j int) bool {
		si, sj := timingSlot(meds[i].Timing), timingSlot(meds[j].Timing)
		if si != sj {
			return si < sj
		}
		return strings.ToLower(meds[i].Name) < strings.ToLower(meds[j].Name)
	})
}
