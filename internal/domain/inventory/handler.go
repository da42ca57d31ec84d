package inventory

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Get("/", listItemsHandler(svc))
		ir.Post("/", saveItemHandler(svc))
		ir.Get("/logs", listLogsHandler(svc))
		ir.Patch("/{itemID}", updateItemHandler(svc))
		ir.Delete("/{itemID}", deleteItemHandler(svc))
		ir.Post("/{itemID}/refill", refillHandler(svc))
	})

	// Read-models sobre el resolver
	r.Get("/shopping-list", shoppingListHandler(svc, medsSvc))
	r.Get("/settings/groups", groupsHandler(svc, medsSvc))
}

type itemRequest struct {
	Name string `json:"name"`

	// Números como raw para coercionar basura a 0 en vez de rechazar.
	Quantity  json.RawMessage `json:"quantity"`
	Threshold json.RawMessage `json:"threshold"`
	PackSize  json.RawMessage `json:"pack_size"`
	Unit      string          `json:"unit"`
}

type itemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Threshold    int    `json:"threshold"`
	PackSize     int    `json:"pack_size,omitempty"`
	Unit         string `json:"unit,omitempty"`
	IsLow        bool   `json:"is_low"`
	IsOutOfStock bool   `json:"is_out_of_stock"`
}

type refillRequest struct {
	Packs    json.RawMessage `json:"packs"`
	PackSize json.RawMessage `json:"pack_size"`
}

type refillResponse struct {
	Item itemResponse `json:"item"`
	Log  logResponse  `json:"log"`
}

type logResponse struct {
	ID          string    `json:"id"`
	InventoryID string    `json:"inventory_id"`
	ProductName string    `json:"product_name"`
	AmountAdded int       `json:"amount_added"`
	PacksAdded  int       `json:"packs_added"`
	Date        time.Time `json:"date"`
}

type shoppingItemResponse struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Users    []string `json:"users"`
}

type groupEntryResponse struct {
	MedicationID string `json:"medication_id"`
	UserID       string `json:"user_id"`
	Timing       string `json:"timing"`
	Dosage       string `json:"dosage"`
	IsArchived   bool   `json:"is_archived"`
}

type groupResponse struct {
	Key       string               `json:"key"`
	Name      string               `json:"name"`
	Quantity  *int                 `json:"quantity,omitempty"`
	Threshold *int                 `json:"threshold,omitempty"`
	Entries   []groupEntryResponse `json:"entries"`
}

func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func saveItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.SaveItem(r.Context(), Item{
			Name:      req.Name,
			Quantity:  coerceInt(req.Quantity),
			Threshold: coerceInt(req.Threshold),
			PackSize:  coerceInt(req.PackSize),
			Unit:      strings.TrimSpace(req.Unit),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func updateItemHandler(svc *Service) http.HandlerFunc {
	// Edición completa del pool (corrección manual de cantidad incluida).
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.GetItem(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if v, ok := raw["name"]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				current.Name = s
			}
		}
		if v, ok := raw["quantity"]; ok {
			current.Quantity = coerceInt(v)
		}
		if v, ok := raw["threshold"]; ok {
			current.Threshold = coerceInt(v)
		}
		if v, ok := raw["pack_size"]; ok {
			current.PackSize = coerceInt(v)
		}
		if v, ok := raw["unit"]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				current.Unit = s
			}
		}

		it, err := svc.SaveItem(r.Context(), current)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func refillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, l, err := svc.Refill(r.Context(), chi.URLParam(r, "itemID"), coerceInt(req.Packs), coerceInt(req.PackSize))
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "product not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, refillResponse{
			Item: toItemResponse(it),
			Log:  toLogResponse(l),
		})
	}
}

func listLogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := svc.ListLogs(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]logResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, toLogResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func shoppingListHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meds := svc.Hydrate(r.Context(), medsSvc.ListAll(r.Context()))

		out := make([]shoppingItemResponse, 0)
		for _, si := range ShoppingList(meds) {
			users := make([]string, 0, len(si.Users))
			for _, u := range si.Users {
				users = append(users, string(u))
			}
			out = append(out, shoppingItemResponse{
				Key:      si.Key,
				Name:     si.Name,
				Quantity: si.Quantity,
				Users:    users,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func groupsHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meds := svc.Hydrate(r.Context(), medsSvc.ListAll(r.Context()))

		out := make([]groupResponse, 0)
		for _, g := range Groups(meds) {
			resp := groupResponse{Key: g.Key, Name: g.Name}
			if g.Stock != nil {
				q, t := g.Stock.Quantity, g.Stock.Threshold
				resp.Quantity = &q
				resp.Threshold = &t
			}
			for _, e := range g.Entries {
				resp.Entries = append(resp.Entries, groupEntryResponse{
					MedicationID: e.MedicationID,
					UserID:       string(e.UserID),
					Timing:       e.Timing,
					Dosage:       e.Dosage,
					IsArchived:   e.IsArchived,
				})
			}
			out = append(out, resp)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Quantity:     it.Quantity,
		Threshold:    it.Threshold,
		PackSize:     it.PackSize,
		Unit:         it.Unit,
		IsLow:        it.IsLow(),
		IsOutOfStock: it.IsOutOfStock(),
	}
}

func toLogResponse(l Log) logResponse {
	return logResponse{
		ID:          l.ID,
		InventoryID: l.InventoryID,
		ProductName: l.ProductName,
		AmountAdded: l.AmountAdded,
		PacksAdded:  l.PacksAdded,
		Date:        l.Date,
	}
}

// coerceInt tolera números mandados como string o directamente basura:
// lo no numérico vale 0 en vez de rechazar el request.
func coerceInt(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return n
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
