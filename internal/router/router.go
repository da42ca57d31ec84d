package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/paselsoft/MediCoppia-Tracker/internal/adapters/notify/webhook"
	mem "github.com/paselsoft/MediCoppia-Tracker/internal/adapters/storage/memory"
	pg "github.com/paselsoft/MediCoppia-Tracker/internal/adapters/storage/postgres"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/adherence"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/doselog"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/inventory"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/middleware"
	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/logger"
	"github.com/paselsoft/MediCoppia-Tracker/internal/ports/notify"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: avisos de stock bajo. Nil => Noop.
	Notifier notify.Notifier

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.UserContext())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		medRepo   medications.Repository
		doseRepo  doselog.Repository
		itemRepo  inventory.ItemRepository
		stockLogs inventory.LogRepository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to in-memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		medRepo = pg.NewMedicationsRepo(db)
		doseRepo = pg.NewDoseLogRepo(db)
		itemRepo = pg.NewInventoryRepo(db)
		stockLogs = pg.NewInventoryLogRepo(db)
	} else {
		medRepo = mem.NewMedicationsRepo()
		doseRepo = mem.NewDoseLogRepo()
		itemRepo = mem.NewInventoryRepo()
		stockLogs = mem.NewInventoryLogRepo()
	}

	notifier := opts.Notifier
	if notifier == nil {
		if url := os.Getenv("LOW_STOCK_WEBHOOK_URL"); url != "" {
			notifier = webhook.New(webhook.Config{URL: url, Timeout: 10 * time.Second})
		} else {
			notifier = notify.Noop{}
		}
	}

	// Services por módulo. El repo de tomas hace de purgador para que
	// borrar un medicamento no deje registros colgando.
	medsSvc := medications.NewService(medRepo, doseRepo, log)
	invSvc := inventory.NewService(itemRepo, stockLogs, medRepo, log)
	doseSvc := doselog.NewService(doseRepo, medsSvc, invSvc, notifier, log)
	adhSvc := adherence.NewService(medsSvc, doseSvc)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc, invSvc)
	doselog.RegisterRoutes(r, doseSvc)
	inventory.RegisterRoutes(r, invSvc, medsSvc)
	adherence.RegisterRoutes(r, adhSvc, invSvc)

	return r
}
