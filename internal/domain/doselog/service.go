package doselog

import (
	"context"
	"errors"
	"time"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/inventory"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/logger"
	"github.com/paselsoft/MediCoppia-Tracker/internal/ports/notify"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo     Repository
	meds     *medications.Service
	inv      *inventory.Service
	notifier notify.Notifier
	log      logger.Logger
}

func NewService(repo Repository, meds *medications.Service, inv *inventory.Service, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Service{
		repo:     repo,
		meds:     meds,
		inv:      inv,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) IsTaken(ctx context.Context, date time.Time, medicationID string) (bool, error) {
	if medicationID == "" {
		return false, ErrInvalidInput
	}
	return s.repo.Exists(ctx, date.Format(DayFormat), medicationID)
}

// Snapshot devuelve todas las tomas como mapa día|medicamento -> true.
// El agregador de adherencia trabaja sobre esta foto en memoria.
func (s *Service) Snapshot(ctx context.Context) (map[string]bool, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Date+"|"+e.MedicationID] = true
	}
	return out, nil
}

// SetTaken es el flujo de toggle completo. El orden importa y es fijo:
// primero el registro de la toma, después el ajuste de stock. Si el ajuste
// falla, la toma queda marcada sin stock doblemente descontado; la
// recarga del snapshot tras el aviso de cambio corrige la divergencia.
//
// Sobre el registro es idempotente en ambos sentidos. El ajuste de stock
// en cambio se aplica por llamada: des-marcar devuelve exactamente lo que
// marcar descontó, en los tres modos de enlace.
func (s *Service) SetTaken(ctx context.Context, date time.Time, medicationID string, taken bool) error {
	if medicationID == "" {
		return ErrInvalidInput
	}

	m, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		return err
	}

	day := date.Format(DayFormat)
	if taken {
		err = s.repo.Set(ctx, day, medicationID)
	} else {
		err = s.repo.Delete(ctx, day, medicationID)
	}
	if err != nil {
		return err
	}

	delta := +1
	if taken {
		delta = -1
	}
	projected, tracked, err := s.inv.ApplyDoseChange(ctx, m, delta)
	if err != nil {
		// La toma ya quedó registrada; el stock se corrige en la próxima
		// recarga del snapshot.
		s.log.Warn("stock adjustment failed after dose log write", map[string]any{
			"medication_id": medicationID,
			"date":          day,
			"error":         err.Error(),
		})
		return nil
	}

	if taken && tracked && projected.Quantity <= projected.Threshold {
		// El aviso se decide con la cantidad proyectada post-descuento.
		// La entrega es fire-and-forget: no bloquea el toggle.
		go func(name string, remaining int) {
			if err := s.notifier.LowStock(context.Background(), name, remaining); err != nil {
				s.log.Warn("low-stock notification failed", map[string]any{"medication": name, "error": err.Error()})
			}
		}(m.Name, projected.Quantity)
	}
	return nil
}

// DeleteByMedication satisface medications.LogPurger: al eliminar un
// medicamento se van también sus tomas.
func (s *Service) DeleteByMedication(ctx context.Context, medicationID string) error {
	return s.repo.DeleteByMedication(ctx, medicationID)
}
