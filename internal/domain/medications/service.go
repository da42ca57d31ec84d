package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// LogPurger borra los registros de tomas de un medicamento eliminado.
// Interfaz local para no acoplar este paquete al de dose logs.
type LogPurger interface {
	DeleteByMedication(ctx context.Context, medicationID string) error
}

type Service struct {
	repo   Repository
	purger LogPurger
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, purger LogPurger, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		purger: purger,
		log:    log,
		now:    time.Now,
	}
}

// Slug normaliza un nombre al identificador legacy de stock compartido:
// minúsculas y espacios a guiones. Se calcula al crear el enlace y después
// queda fijo en el registro.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(s), "-")
}

type CreateInput struct {
	Name      string
	Dosage    string
	Timing    string
	Frequency Frequency
	Notes     string
	Icon      Icon

	StockQuantity  *int
	StockThreshold *int
	ShareLegacy    bool // genera SharedID a partir del nombre
	ProductID      string
}

func (s *Service) Create(ctx context.Context, userID household.UserID, in CreateInput) (Medication, error) {
	if _, ok := household.GetProfile(userID); !ok {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	freq := in.Frequency
	if freq == "" {
		freq = FrequencyDaily
	}
	if !freq.Valid() {
		return Medication{}, ErrInvalidInput
	}
	icon := in.Icon
	if icon == "" {
		icon = IconPill
	}

	m := Medication{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		Dosage:         strings.TrimSpace(in.Dosage),
		Timing:         strings.TrimSpace(in.Timing),
		Frequency:      freq,
		Notes:          strings.TrimSpace(in.Notes),
		Icon:           icon,
		StockQuantity:  in.StockQuantity,
		StockThreshold: in.StockThreshold,
		ProductID:      strings.TrimSpace(in.ProductID),
	}
	if in.ShareLegacy && m.ProductID == "" {
		m.SharedID = Slug(m.Name)
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Dosage    *string
	Timing    *string
	Frequency *Frequency
	Notes     *string
	Icon      *Icon

	IsArchived *bool

	StockQuantity  *int
	StockThreshold *int
	ClearStock     bool // borra el stock privado legacy
	ProductID      *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.Timing != nil {
		m.Timing = strings.TrimSpace(*in.Timing)
	}
	if in.Frequency != nil {
		if !in.Frequency.Valid() {
			return Medication{}, ErrInvalidInput
		}
		m.Frequency = *in.Frequency
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Icon != nil {
		m.Icon = *in.Icon
	}
	if in.IsArchived != nil {
		m.IsArchived = *in.IsArchived
	}
	if in.StockQuantity != nil {
		m.StockQuantity = in.StockQuantity
	}
	if in.StockThreshold != nil {
		m.StockThreshold = in.StockThreshold
	}
	if in.ClearStock {
		m.StockQuantity = nil
		m.StockThreshold = nil
	}
	if in.ProductID != nil {
		m.ProductID = strings.TrimSpace(*in.ProductID)
		if m.ProductID != "" {
			// Al enlazar a un producto, los campos legacy dejan de ser
			// autoritativos: se limpian para que la resolución no caiga
			// nunca en el modo viejo.
			m.SharedID = ""
			m.StockQuantity = nil
			m.StockThreshold = nil
		}
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListAll devuelve el catálogo completo del hogar. Si el almacén no
// responde, cae al plan de base para que la app siga funcionando offline.
func (s *Service) ListAll(ctx context.Context) []Medication {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Warn("store unreachable, using default medication set", map[string]any{"error": err.Error()})
		return DefaultSet()
	}
	if len(items) == 0 {
		return DefaultSet()
	}
	return items
}

func (s *Service) ListByUser(ctx context.Context, userID household.UserID) []Medication {
	out := make([]Medication, 0)
	for _, m := range s.ListAll(ctx) {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) ListBySharedID(ctx context.Context, sharedID string) ([]Medication, error) {
	sharedID = strings.TrimSpace(sharedID)
	if sharedID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListBySharedID(ctx, sharedID)
}

// Delete elimina el medicamento y sus registros de tomas, como hace la app:
// primero los logs (si falla solo se avisa), después el registro.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if s.purger != nil {
		if err := s.purger.DeleteByMedication(ctx, id); err != nil {
			s.log.Warn("failed to purge dose logs", map[string]any{"medication_id": id, "error": err.Error()})
		}
	}
	return s.repo.Delete(ctx, id)
}
