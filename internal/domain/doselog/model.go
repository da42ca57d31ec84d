package doselog

import "time"

// DayFormat es el día de calendario del registro. No se guarda a qué hora
// se tomó: existe la entrada o no existe.
const DayFormat = "2006-01-02"

// Entry es un hecho: ese día, ese medicamento, tomado. La ausencia de
// entrada significa "no tomado", no "desconocido".
type Entry struct {
	Date         string // YYYY-MM-DD
	MedicationID string
}

// Key arma la clave compuesta día|medicamento del almacén de tomas.
func Key(date time.Time, medicationID string) string {
	return date.Format(DayFormat) + "|" + medicationID
}
