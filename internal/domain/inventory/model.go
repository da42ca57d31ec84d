package inventory

import "time"

// Item es un pool físico de stock. Varios medicamentos pueden apuntar al
// mismo Item; la cantidad autoritativa vive siempre aquí, lo que ven los
// medicamentos es una proyección hidratada en lectura.
type Item struct {
	ID   string
	Name string

	// Sin clamp a cero: negativa señala sobre-consumo o error de carga.
	Quantity  int
	Threshold int

	// Para la UX de recompra (tamaño de confección estándar).
	PackSize int
	Unit     string // "cps", "ml", "bustine", ...
}

// IsLow es inclusivo: en el umbral ya se avisa.
func (i Item) IsLow() bool { return i.Quantity <= i.Threshold }

func (i Item) IsOutOfStock() bool { return i.Quantity <= 0 }

// Log es el registro inmutable de una recarga. Solo se agrega, nunca se
// edita ni participa en más cálculos de stock.
type Log struct {
	ID          string
	InventoryID string
	ProductName string
	AmountAdded int
	PacksAdded  int
	Date        time.Time
}
