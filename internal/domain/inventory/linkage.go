package inventory

import "github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"

// LinkageMode indica qué pool de stock gobierna un medicamento.
type LinkageMode int

const (
	// LinkageNone: sin stock, sin umbrales, sin avisos.
	LinkageNone LinkageMode = iota
	// LinkagePrivate: stock propio del medicamento (el esquema más viejo).
	LinkagePrivate
	// LinkageLegacy: stock compartido por slug de nombre entre usuarios.
	LinkageLegacy
	// LinkageLinked: enlazado a un Item del inventario (esquema nuevo).
	LinkageLinked
)

// Linkage es el resultado de resolver el enlace de un medicamento.
// Se resuelve una sola vez por operación; agregar un modo futuro es
// agregar una variante acá, no otro if repartido por el código.
type Linkage struct {
	Mode LinkageMode

	// GroupKey es el slug para LinkageLegacy.
	GroupKey string
	// ProductID es el Item para LinkageLinked.
	ProductID string
}

// Resolve aplica el orden estricto de prioridad: producto enlazado,
// después slug legacy, después stock privado, después nada.
func Resolve(m medications.Medication) Linkage {
	if m.ProductID != "" {
		return Linkage{Mode: LinkageLinked, ProductID: m.ProductID}
	}
	if m.SharedID != "" {
		return Linkage{Mode: LinkageLegacy, GroupKey: m.SharedID}
	}
	if m.StockQuantity != nil {
		return Linkage{Mode: LinkagePrivate}
	}
	return Linkage{Mode: LinkageNone}
}

// GroupingKey es la clave de agrupación para vistas (lista de compra,
// listado de ajustes): un mismo pool no debe duplicar filas.
func GroupingKey(m medications.Medication) string {
	switch l := Resolve(m); l.Mode {
	case LinkageLinked:
		return "prod_" + l.ProductID
	case LinkageLegacy:
		return "shared_" + l.GroupKey
	default:
		return m.ID
	}
}
