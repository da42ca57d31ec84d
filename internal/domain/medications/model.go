package medications

import "github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"

// Frequency define cada cuánto corresponde una toma.
// Los dos turnos alternos son complementarios: en un día dado exactamente
// uno de los dos está activo, según la paridad global desde la época
// (ver el paquete schedule). Nunca se evalúan contra fuentes distintas.
type Frequency string

const (
	FrequencyDaily Frequency = "daily"
	// Turno A: activo en días pares desde la época.
	FrequencyAlternate Frequency = "alternate_days"
	// Turno B: activo en días impares desde la época.
	FrequencyAlternateOdd Frequency = "alternate_days_odd"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyAlternate, FrequencyAlternateOdd:
		return true
	}
	return false
}

// Icon es solo presentación; el cliente decide cómo dibujarlo.
type Icon string

const (
	IconPill   Icon = "pill"
	IconDrop   Icon = "drop"
	IconClock  Icon = "clock"
	IconSachet Icon = "sachet"
)

// Medication es un ítem prescrito para uno de los dos usuarios.
//
// El enlace de stock es excluyente y se resuelve en orden estricto:
// ProductID (pool compartido nuevo) > SharedID (slug legacy que une
// medicamentos con el mismo nombre entre usuarios) > stock privado
// (StockQuantity definido) > sin stock. La resolución vive en el
// paquete inventory.
type Medication struct {
	ID     string
	UserID household.UserID

	Name   string
	Dosage string
	// Timing es texto libre ("Mattina", "Entro le 17:00", ...). Solo se usa
	// para mostrar y para el orden del plan diario, nunca para decidir si
	// la toma corresponde hoy.
	Timing    string
	Frequency Frequency
	Notes     string
	Icon      Icon

	// Archivado: fuera del plan diario y de los "saltados" del histórico,
	// pero sigue apareciendo en los días en que sí fue tomado.
	IsArchived bool

	// Stock legacy por-medicamento. nil = sin stock propio.
	StockQuantity  *int
	StockThreshold *int

	// Slug legacy que comparte stock entre registros del mismo nombre.
	SharedID string

	// Enlace al pool físico (tabla inventory). Tiene prioridad sobre SharedID.
	ProductID string
}
