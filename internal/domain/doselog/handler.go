package doselog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/logs/toggle", toggleHandler(svc))
}

type toggleRequest struct {
	Date         string `json:"date"` // YYYY-MM-DD
	MedicationID string `json:"medication_id"`
	Taken        bool   `json:"taken"`
}

type toggleResponse struct {
	Date         string `json:"date"`
	MedicationID string `json:"medication_id"`
	Taken        bool   `json:"taken"`
}

func toggleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse(DayFormat, req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		if err := svc.SetTaken(r.Context(), date, req.MedicationID, req.Taken); err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "medication not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toggleResponse{
			Date:         date.Format(DayFormat),
			MedicationID: req.MedicationID,
			Taken:        req.Taken,
		})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
