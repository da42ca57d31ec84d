package adherence

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/doselog"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/inventory"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/schedule"
	"github.com/paselsoft/MediCoppia-Tracker/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, invSvc *inventory.Service) {
	// Plan del día del usuario en contexto
	r.Get("/plan", planHandler(svc, invSvc))

	r.Route("/history", func(hr chi.Router) {
		hr.Get("/day", dayHandler(svc))
		hr.Get("/month", monthHandler(svc))
	})
}

type statsResponse struct {
	Date       string `json:"date"`
	Taken      int    `json:"taken"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	IsEmpty    bool   `json:"is_empty"`
	IsComplete bool   `json:"is_complete"`
	IsFuture   bool   `json:"is_future"`
}

type planItemResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Timing string `json:"timing"`
	Notes  string `json:"notes,omitempty"`
	Icon   string `json:"icon"`

	// Due=false: no corresponde hoy (turno alterno inactivo); la UI lo
	// muestra deshabilitado, no lo cuenta en el progreso.
	Due   bool `json:"due"`
	Taken bool `json:"taken"`

	StockQuantity  *int `json:"stock_quantity,omitempty"`
	StockThreshold *int `json:"stock_threshold,omitempty"`
}

type planResponse struct {
	Date  string             `json:"date"`
	User  string             `json:"user"`
	Items []planItemResponse `json:"items"`
	Stats statsResponse      `json:"stats"`
}

type dayItemResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Timing string `json:"timing"`
	Taken  bool   `json:"taken"`
}

type dayResponse struct {
	Stats statsResponse     `json:"stats"`
	Items []dayItemResponse `json:"items"`
}

type monthResponse struct {
	Month string          `json:"month"`
	Days  []statsResponse `json:"days"`
}

func planHandler(svc *Service, invSvc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUser(r.Context())
		if !ok {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		today := svc.now()
		meds := invSvc.Hydrate(r.Context(), svc.meds.ListByUser(r.Context(), userID))
		logs, err := svc.logs.Snapshot(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Todos los no archivados, con flag due; el orden es el del plan.
		items := make([]planItemResponse, 0)
		active := make([]medications.Medication, 0, len(meds))
		for _, m := range meds {
			if m.IsArchived {
				continue
			}
			active = append(active, m)
		}
		schedule.SortByTiming(active)

		st := statsResponse{Date: today.Format(doselog.DayFormat)}
		for _, m := range active {
			due := schedule.IsDue(m, today)
			taken := logs[doselog.Key(today, m.ID)]
			items = append(items, planItemResponse{
				ID:             m.ID,
				Name:           m.Name,
				Dosage:         m.Dosage,
				Timing:         m.Timing,
				Notes:          m.Notes,
				Icon:           string(m.Icon),
				Due:            due,
				Taken:          due && taken,
				StockQuantity:  m.StockQuantity,
				StockThreshold: m.StockThreshold,
			})
			if due {
				st.Total++
				if taken {
					st.Taken++
				}
			}
		}

		if st.Total == 0 {
			st.IsEmpty = true
		} else {
			st.Percentage = (100*st.Taken + st.Total/2) / st.Total
			st.IsComplete = st.Taken == st.Total
		}

		writeJSON(w, http.StatusOK, planResponse{
			Date:  today.Format(doselog.DayFormat),
			User:  string(userID),
			Items: items,
			Stats: st,
		})
	}
}

func dayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUser(r.Context())
		if !ok {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		date, err := time.Parse(doselog.DayFormat, r.URL.Query().Get("date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		stats, err := svc.DayStats(r.Context(), userID, date)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		detail, err := svc.DayDetail(r.Context(), userID, date)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		items := make([]dayItemResponse, 0, len(detail))
		for _, d := range detail {
			items = append(items, dayItemResponse{
				ID:     d.Medication.ID,
				Name:   d.Medication.Name,
				Timing: d.Medication.Timing,
				Taken:  d.Taken,
			})
		}

		writeJSON(w, http.StatusOK, dayResponse{
			Stats: toStatsResponse(stats),
			Items: items,
		})
	}
}

func monthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUser(r.Context())
		if !ok {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("month"))
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		days, err := svc.MonthGrid(r.Context(), userID, month)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]statsResponse, 0, len(days))
		for _, d := range days {
			out = append(out, toStatsResponse(d))
		}
		writeJSON(w, http.StatusOK, monthResponse{Month: raw, Days: out})
	}
}

func toStatsResponse(s Stats) statsResponse {
	return statsResponse{
		Date:       s.Date.Format(doselog.DayFormat),
		Taken:      s.Taken,
		Total:      s.Total,
		Percentage: s.Percentage,
		IsEmpty:    s.IsEmpty,
		IsComplete: s.IsComplete,
		IsFuture:   s.IsFuture,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
