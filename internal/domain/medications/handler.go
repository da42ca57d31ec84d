package medications

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/middleware"
)

// StockHydrator proyecta el stock de los productos enlazados sobre los
// medicamentos. Lo implementa el servicio de inventario; acá solo se
// declara lo que se usa para no acoplar los dos módulos.
type StockHydrator interface {
	Hydrate(ctx context.Context, meds []Medication) []Medication
}

func RegisterRoutes(r chi.Router, svc *Service, hydrator StockHydrator) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc, hydrator))
		mr.Patch("/{medID}", updateMedicationHandler(svc))
		mr.Delete("/{medID}", deleteMedicationHandler(svc))
	})
}

type createMedicationRequest struct {
	UserID    string `json:"user_id"` // opcional si viene X-User-ID
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Timing    string `json:"timing"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes"`
	Icon      string `json:"icon"`

	// Números como raw para coercionar basura a 0 en vez de rechazar.
	StockQuantity  json.RawMessage `json:"stock_quantity"`
	StockThreshold json.RawMessage `json:"stock_threshold"`
	ShareLegacy    bool            `json:"share_legacy"`
	ProductID      string          `json:"product_id"`
}

type updateMedicationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Timing    *string `json:"timing"`
	Frequency *string `json:"frequency"`
	Notes     *string `json:"notes"`
	Icon      *string `json:"icon"`

	IsArchived *bool `json:"is_archived"`

	StockQuantity  json.RawMessage `json:"stock_quantity"`
	StockThreshold json.RawMessage `json:"stock_threshold"`
	ClearStock     bool            `json:"clear_stock"`
	ProductID      *string         `json:"product_id"`
}

type medicationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Timing    string `json:"timing"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes,omitempty"`
	Icon      string `json:"icon"`

	IsArchived bool `json:"is_archived"`

	StockQuantity  *int   `json:"stock_quantity,omitempty"`
	StockThreshold *int   `json:"stock_threshold,omitempty"`
	SharedID       string `json:"shared_id,omitempty"`
	ProductID      string `json:"product_id,omitempty"`
}

func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		userID, ok := middleware.GetUser(r.Context())
		if !ok {
			userID, ok = household.Parse(req.UserID)
			if !ok {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}
		}

		m, err := svc.Create(r.Context(), userID, CreateInput{
			Name:           req.Name,
			Dosage:         req.Dosage,
			Timing:         req.Timing,
			Frequency:      Frequency(req.Frequency),
			Notes:          req.Notes,
			Icon:           Icon(req.Icon),
			StockQuantity:  coerceOptionalInt(req.StockQuantity),
			StockThreshold: coerceOptionalInt(req.StockThreshold),
			ShareLegacy:    req.ShareLegacy,
			ProductID:      req.ProductID,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service, hydrator StockHydrator) http.HandlerFunc {
	// Catálogo completo del hogar (ambos usuarios), con stock hidratado
	// desde los productos enlazados.
	return func(w http.ResponseWriter, r *http.Request) {
		items := hydrator.Hydrate(r.Context(), svc.ListAll(r.Context()))

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateMedicationRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:           req.Name,
			Dosage:         req.Dosage,
			Timing:         req.Timing,
			Notes:          req.Notes,
			IsArchived:     req.IsArchived,
			StockQuantity:  coerceOptionalInt(req.StockQuantity),
			StockThreshold: coerceOptionalInt(req.StockThreshold),
			ClearStock:     req.ClearStock,
			ProductID:      req.ProductID,
		}
		if req.Frequency != nil {
			f := Frequency(*req.Frequency)
			in.Frequency = &f
		}
		if req.Icon != nil {
			ic := Icon(*req.Icon)
			in.Icon = &ic
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medID"), in)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "medID")); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:             m.ID,
		UserID:         string(m.UserID),
		Name:           m.Name,
		Dosage:         m.Dosage,
		Timing:         m.Timing,
		Frequency:      string(m.Frequency),
		Notes:          m.Notes,
		Icon:           string(m.Icon),
		IsArchived:     m.IsArchived,
		StockQuantity:  m.StockQuantity,
		StockThreshold: m.StockThreshold,
		SharedID:       m.SharedID,
		ProductID:      m.ProductID,
	}
}

// coerceOptionalInt tolera números mandados como string o directamente
// basura: lo no numérico vale 0 en vez de rechazar el request.
func coerceOptionalInt(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			n = int(f)
		} else {
			n = 0
		}
	}
	return &n
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
