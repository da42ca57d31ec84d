// Package webhook entrega los avisos de stock bajo a un endpoint HTTP
// (el puente hacia push/WhatsApp vive del otro lado del webhook).
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("webhook notifier not configured")
)

// Config del notificador.
// URL normalmente viene de LOW_STOCK_WEBHOOK_URL en quien lo instancia.
type Config struct {
	URL     string
	Timeout time.Duration
}

type Notifier struct {
	url    string
	client *httpclient.Client
}

func New(cfg Config) *Notifier {
	return &Notifier{
		url:    strings.TrimSpace(cfg.URL),
		client: httpclient.New(cfg.Timeout),
	}
}

func (n *Notifier) IsConfigured() bool {
	return n != nil && n.url != ""
}

type lowStockPayload struct {
	Medication string `json:"medication"`
	Remaining  int    `json:"remaining"`
	Message    string `json:"message"`
}

// LowStock manda el aviso con la cantidad proyectada. El texto va armado
// para que el receptor pueda reenviarlo tal cual.
func (n *Notifier) LowStock(ctx context.Context, medicationName string, remaining int) error {
	if !n.IsConfigured() {
		return ErrNotConfigured
	}

	payload := lowStockPayload{
		Medication: medicationName,
		Remaining:  remaining,
		Message:    fmt.Sprintf("Scorta in esaurimento: %s, ne restano %d", medicationName, remaining),
	}
	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, payload, nil)
}
