package household

import "strings"

// UserID identifica a uno de los dos usuarios del hogar.
// El sistema está pensado para exactamente dos personas que comparten
// un mismo almacén de datos.
type UserID string

const (
	UserPaolo   UserID = "paolo"
	UserBarbara UserID = "barbara"
)

// Profile son los datos de presentación de un usuario.
// Los colores son tokens de tema que consume el cliente, no el core.
type Profile struct {
	ID             UserID
	Name           string
	ThemeColor     string
	SecondaryColor string
}

var profiles = map[UserID]Profile{
	UserPaolo: {
		ID:             UserPaolo,
		Name:           "Paolo",
		ThemeColor:     "blue",
		SecondaryColor: "blue-soft",
	},
	UserBarbara: {
		ID:             UserBarbara,
		Name:           "Barbara",
		ThemeColor:     "rose",
		SecondaryColor: "rose-soft",
	},
}

// Parse normaliza y valida un user id. Devuelve false si no es
// ninguno de los dos usuarios del hogar.
func Parse(s string) (UserID, bool) {
	id := UserID(strings.ToLower(strings.TrimSpace(s)))
	_, ok := profiles[id]
	return id, ok
}

func GetProfile(id UserID) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

// All devuelve los perfiles en orden estable (Paolo primero, como en la UI).
func All() []Profile {
	return []Profile{profiles[UserPaolo], profiles[UserBarbara]}
}

// Other devuelve el otro usuario del hogar (para recordatorios cruzados).
func Other(id UserID) UserID {
	if id == UserPaolo {
		return UserBarbara
	}
	return UserPaolo
}
