package medications

import "github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"

// DefaultSet es el plan de base del hogar. Se usa como fallback de lectura
// cuando el almacén no responde, para que la app siga siendo usable offline.
// Nunca se escribe al almacén desde aquí (el seeding es del colaborador externo).
func DefaultSet() []Medication {
	return []Medication{
		// Paolo
		{ID: "p-retigan", UserID: household.UserPaolo, Name: "RETIGAN Q10", Dosage: "1 Bustina", Timing: "Mattina", Frequency: FrequencyAlternate, Notes: "Giorni alterni", Icon: IconSachet},
		{ID: "p-zetavit", UserID: household.UserPaolo, Name: "ZETAVIT Mg+K", Dosage: "1 Bustina", Timing: "Mattina", Frequency: FrequencyAlternate, Notes: "Giorni alterni", Icon: IconSachet},
		{ID: "p-uncaria-am", UserID: household.UserPaolo, Name: "UNCARIA", Dosage: "1 Capsula", Timing: "Mattina", Frequency: FrequencyDaily, Icon: IconPill},
		{ID: "p-uncaria-pm", UserID: household.UserPaolo, Name: "UNCARIA", Dosage: "1 Capsula", Timing: "Pomeriggio", Frequency: FrequencyDaily, Icon: IconPill},
		{ID: "p-same", UserID: household.UserPaolo, Name: "SAMe", Dosage: "1 Capsula", Timing: "Lontano dai pasti", Frequency: FrequencyDaily, Icon: IconPill},

		// Barbara
		{ID: "b-osteoral", UserID: household.UserBarbara, Name: "OSTEORAL", Dosage: "1 Capsula", Timing: "Colazione", Frequency: FrequencyDaily, Icon: IconPill},
		{ID: "b-carpino-am", UserID: household.UserBarbara, Name: "CARPINO BIANCO", Dosage: "60 Gocce", Timing: "Mattina", Frequency: FrequencyDaily, Icon: IconDrop},
		{ID: "b-ribes-am", UserID: household.UserBarbara, Name: "RIBES NERO", Dosage: "60 Gocce", Timing: "Mattina", Frequency: FrequencyDaily, Icon: IconDrop},
		{ID: "b-carpino-pm", UserID: household.UserBarbara, Name: "CARPINO BIANCO", Dosage: "60 Gocce", Timing: "Pomeriggio", Frequency: FrequencyDaily, Icon: IconDrop},
		{ID: "b-ribes-pm", UserID: household.UserBarbara, Name: "RIBES NERO", Dosage: "60 Gocce", Timing: "Entro le 17:00", Frequency: FrequencyDaily, Notes: "Importante: Prima delle 17:00", Icon: IconClock},
		{ID: "b-uncaria-am", UserID: household.UserBarbara, Name: "UNCARIA", Dosage: "1 Capsula", Timing: "Mattina", Frequency: FrequencyDaily, Icon: IconPill},
		{ID: "b-uncaria-pm", UserID: household.UserBarbara, Name: "UNCARIA", Dosage: "1 Capsula", Timing: "Pomeriggio", Frequency: FrequencyDaily, Icon: IconPill},
		{ID: "b-same", UserID: household.UserBarbara, Name: "SAMe", Dosage: "1 Capsula", Timing: "Lontano dai pasti", Frequency: FrequencyDaily, Icon: IconPill},
	}
}
