package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	items ItemRepository
	logs  LogRepository
	meds  medications.Repository
	log   logger.Logger
	now   func() time.Time
}

func NewService(items ItemRepository, logs LogRepository, meds medications.Repository, log logger.Logger) *Service {
	return &Service{
		items: items,
		logs:  logs,
		meds:  meds,
		log:   log,
		now:   time.Now,
	}
}

// Stock es la vista (cantidad, umbral) del pool que gobierna un medicamento.
type Stock struct {
	Quantity  int
	Threshold int
}

// CurrentStock devuelve el stock del pool resuelto, o ok=false si el
// medicamento no lleva stock.
func (s *Service) CurrentStock(ctx context.Context, m medications.Medication) (Stock, bool, error) {
	switch l := Resolve(m); l.Mode {
	case LinkageLinked:
		it, err := s.items.GetByID(ctx, l.ProductID)
		if err != nil {
			return Stock{}, false, err
		}
		return Stock{Quantity: it.Quantity, Threshold: it.Threshold}, true, nil

	case LinkageLegacy, LinkagePrivate:
		if m.StockQuantity == nil {
			return Stock{}, false, nil
		}
		st := Stock{Quantity: *m.StockQuantity}
		if m.StockThreshold != nil {
			st.Threshold = *m.StockThreshold
		}
		return st, true, nil
	}
	return Stock{}, false, nil
}

// ApplyDoseChange aplica delta (-1 toma, +1 des-toma) al pool resuelto.
//
// Linked: un solo ajuste sobre el Item; todos los medicamentos que lo
// referencian lo ven por hidratación, nunca por escritura propia.
// Legacy: el ajuste se aplica a TODOS los registros con el mismo slug,
// incluidos los del otro usuario: dos personas, un frasco.
// Private: solo este registro. None: no hay nada que ajustar.
//
// Devuelve el stock proyectado post-ajuste para el chequeo de umbral,
// y tracked=false cuando el medicamento no lleva stock.
func (s *Service) ApplyDoseChange(ctx context.Context, m medications.Medication, delta int) (Stock, bool, error) {
	switch l := Resolve(m); l.Mode {
	case LinkageLinked:
		it, err := s.items.AdjustQuantity(ctx, l.ProductID, delta)
		if err != nil {
			return Stock{}, false, err
		}
		return Stock{Quantity: it.Quantity, Threshold: it.Threshold}, true, nil

	case LinkageLegacy:
		if m.StockQuantity == nil {
			// Registro legacy sin cantidad cargada: nada que ajustar.
			return Stock{}, false, nil
		}
		group, err := s.meds.ListBySharedID(ctx, l.GroupKey)
		if err != nil {
			return Stock{}, false, err
		}
		projected := *m.StockQuantity + delta
		for _, gm := range group {
			if gm.StockQuantity == nil {
				continue
			}
			q := *gm.StockQuantity + delta
			gm.StockQuantity = &q
			if err := s.meds.Upsert(ctx, gm); err != nil {
				return Stock{}, false, err
			}
		}
		st := Stock{Quantity: projected}
		if m.StockThreshold != nil {
			st.Threshold = *m.StockThreshold
		}
		return st, true, nil

	case LinkagePrivate:
		q := *m.StockQuantity + delta
		m.StockQuantity = &q
		if err := s.meds.Upsert(ctx, m); err != nil {
			return Stock{}, false, err
		}
		st := Stock{Quantity: q}
		if m.StockThreshold != nil {
			st.Threshold = *m.StockThreshold
		}
		return st, true, nil
	}
	return Stock{}, false, nil
}

// Refill suma packs×unidades al pool y deja exactamente una entrada en el
// registro de recargas. Si el formato de confección cambió, se recuerda.
func (s *Service) Refill(ctx context.Context, productID string, packs, packSize int) (Item, Log, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || packs <= 0 || packSize <= 0 {
		return Item{}, Log{}, ErrInvalidInput
	}

	it, err := s.items.GetByID(ctx, productID)
	if err != nil {
		return Item{}, Log{}, err
	}

	amount := packs * packSize
	it.Quantity += amount
	if it.PackSize != packSize {
		it.PackSize = packSize
	}
	if err := s.items.Upsert(ctx, it); err != nil {
		return Item{}, Log{}, err
	}

	l := Log{
		ID:          uuid.NewString(),
		InventoryID: it.ID,
		ProductName: it.Name,
		AmountAdded: amount,
		PacksAdded:  packs,
		Date:        s.now(),
	}
	if err := s.logs.Append(ctx, l); err != nil {
		// La recarga ya está aplicada; el audit log es best effort.
		s.log.Warn("failed to append refill log", map[string]any{"inventory_id": it.ID, "error": err.Error()})
	}
	return it, l, nil
}

// SaveItem crea o edita un pool (corrección manual de cantidad incluida).
func (s *Service) SaveItem(ctx context.Context, it Item) (Item, error) {
	if strings.TrimSpace(it.Name) == "" {
		return Item{}, ErrInvalidInput
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.Name = strings.TrimSpace(it.Name)
	if err := s.items.Upsert(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidInput
	}
	return s.items.GetByID(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.items.Delete(ctx, id)
}

// ListLogs devuelve el histórico de recargas, el más reciente primero.
func (s *Service) ListLogs(ctx context.Context) ([]Log, error) {
	logs, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	return logs, nil
}

// Hydrate proyecta cantidad y umbral del Item sobre los medicamentos
// enlazados, solo para mostrar. El valor proyectado jamás se escribe de
// vuelta como autoritativo.
func (s *Service) Hydrate(ctx context.Context, meds []medications.Medication) []medications.Medication {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		s.log.Warn("failed to load inventory for hydration", map[string]any{"error": err.Error()})
		return meds
	}
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := make([]medications.Medication, len(meds))
	copy(out, meds)
	for i, m := range out {
		if m.ProductID == "" {
			continue
		}
		it, ok := byID[m.ProductID]
		if !ok {
			continue
		}
		q, t := it.Quantity, it.Threshold
		out[i].StockQuantity = &q
		out[i].StockThreshold = &t
	}
	return out
}

// ShoppingItem es una fila de la lista de compra: un pool físico bajo
// umbral, con los usuarios que consumen de él.
type ShoppingItem struct {
	Key      string
	Name     string
	Quantity int
	Users    []household.UserID
}

// ShoppingList agrupa los medicamentos bajo umbral por pool para no
// duplicar filas de productos compartidos. Los archivados quedan fuera.
// Espera medicamentos ya hidratados.
func ShoppingList(meds []medications.Medication) []ShoppingItem {
	out := make([]ShoppingItem, 0)
	index := map[string]int{}

	for _, m := range meds {
		if m.IsArchived {
			continue
		}
		if m.StockQuantity == nil || m.StockThreshold == nil {
			continue
		}
		if *m.StockQuantity > *m.StockThreshold {
			continue
		}

		key := GroupingKey(m)
		if i, ok := index[key]; ok {
			found := false
			for _, u := range out[i].Users {
				if u == m.UserID {
					found = true
					break
				}
			}
			if !found {
				out[i].Users = append(out[i].Users, m.UserID)
			}
			continue
		}

		index[key] = len(out)
		out = append(out, ShoppingItem{
			Key:      key,
			Name:     m.Name,
			Quantity: *m.StockQuantity,
			Users:    []household.UserID{m.UserID},
		})
	}
	return out
}

// GroupEntry es una sub-entrada (toma concreta) dentro de un grupo lógico.
type GroupEntry struct {
	MedicationID string
	UserID       household.UserID
	Timing       string
	Dosage       string
	IsArchived   bool
}

// Group es la vista de ajustes: medicamentos con el mismo nombre que
// resuelven al mismo pool se muestran como un solo ítem con N tomas,
// no como filas de stock repetidas.
type Group struct {
	Key     string
	Name    string
	Stock   *Stock
	Entries []GroupEntry
}

// Groups arma el read-model de agrupación para el listado de ajustes.
// Espera medicamentos ya hidratados; es una capa de lectura sobre el
// resolver, no un modelo de almacenamiento.
func Groups(meds []medications.Medication) []Group {
	out := make([]Group, 0)
	index := map[string]int{}

	for _, m := range meds {
		key := GroupingKey(m) + "|" + strings.ToLower(m.Name)
		entry := GroupEntry{
			MedicationID: m.ID,
			UserID:       m.UserID,
			Timing:       m.Timing,
			Dosage:       m.Dosage,
			IsArchived:   m.IsArchived,
		}

		if i, ok := index[key]; ok {
			out[i].Entries = append(out[i].Entries, entry)
			continue
		}

		g := Group{Key: key, Name: m.Name, Entries: []GroupEntry{entry}}
		if m.StockQuantity != nil {
			st := Stock{Quantity: *m.StockQuantity}
			if m.StockThreshold != nil {
				st.Threshold = *m.StockThreshold
			}
			g.Stock = &st
		}
		index[key] = len(out)
		out = append(out, g)
	}
	return out
}
