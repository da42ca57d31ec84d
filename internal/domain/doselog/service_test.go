package doselog_test

import (
	"context"
	"testing"
	"time"

	mem "github.com/paselsoft/MediCoppia-Tracker/internal/adapters/storage/memory"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/doselog"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/inventory"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/logger"
)

type testNotifier struct {
	calls chan lowStockCall
}

type lowStockCall struct {
	name      string
	remaining int
}

func newTestNotifier() *testNotifier {
	return &testNotifier{calls: make(chan lowStockCall, 4)}
}

func (n *testNotifier) LowStock(ctx context.Context, medicationName string, remaining int) error {
	n.calls <- lowStockCall{name: medicationName, remaining: remaining}
	return nil
}

func intp(n int) *int { return &n }

func testLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error})
}

// Arma el stack completo sobre los adapters in-memory, como hace el router.
func newTestStack() (*doselog.Service, medications.Repository, *testNotifier) {
	log := testLogger()
	medsRepo := mem.NewMedicationsRepo()
	doseRepo := mem.NewDoseLogRepo()
	itemRepo := mem.NewInventoryRepo()
	logRepo := mem.NewInventoryLogRepo()

	notifier := newTestNotifier()
	medsSvc := medications.NewService(medsRepo, doseRepo, log)
	invSvc := inventory.NewService(itemRepo, logRepo, medsRepo, log)
	svc := doselog.NewService(doseRepo, medsSvc, invSvc, notifier, log)
	return svc, medsRepo, notifier
}

func TestSetTaken_MarksAndUnmarks(t *testing.T) {
	svc, medsRepo, _ := newTestStack()
	ctx := context.Background()

	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "Omega 3"}
	_ = medsRepo.Upsert(ctx, m)

	date := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if err := svc.SetTaken(ctx, date, "m1", true); err != nil {
		t.Fatalf("SetTaken error: %v", err)
	}

	taken, err := svc.IsTaken(ctx, date, "m1")
	if err != nil || !taken {
		t.Fatalf("expected taken=true, got %v err=%v", taken, err)
	}

	// Otro día sigue sin marcar: la clave es día+medicamento.
	other, _ := svc.IsTaken(ctx, date.AddDate(0, 0, 1), "m1")
	if other {
		t.Fatalf("a mark must not leak to other days")
	}

	if err := svc.SetTaken(ctx, date, "m1", false); err != nil {
		t.Fatalf("SetTaken(false) error: %v", err)
	}
	taken, _ = svc.IsTaken(ctx, date, "m1")
	if taken {
		t.Fatalf("expected taken=false after unmark")
	}
}

func TestSetTaken_UnknownMedicationFails(t *testing.T) {
	svc, _, _ := newTestStack()

	err := svc.SetTaken(context.Background(), time.Now(), "fantasma", true)
	if err == nil {
		t.Fatalf("expected error for unknown medication")
	}
}

func TestSetTaken_AdjustsPrivateStockRoundTrip(t *testing.T) {
	svc, medsRepo, _ := newTestStack()
	ctx := context.Background()

	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "Omega 3", StockQuantity: intp(10), StockThreshold: intp(2)}
	_ = medsRepo.Upsert(ctx, m)

	date := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if err := svc.SetTaken(ctx, date, "m1", true); err != nil {
		t.Fatalf("take error: %v", err)
	}
	got, _ := medsRepo.GetByID(ctx, "m1")
	if *got.StockQuantity != 9 {
		t.Fatalf("expected 9 after take, got %d", *got.StockQuantity)
	}

	if err := svc.SetTaken(ctx, date, "m1", false); err != nil {
		t.Fatalf("untake error: %v", err)
	}
	got, _ = medsRepo.GetByID(ctx, "m1")
	if *got.StockQuantity != 10 {
		t.Fatalf("expected round trip to net zero, got %d", *got.StockQuantity)
	}
}

func TestSetTaken_LegacySharedPoolDecrementsBothUsers(t *testing.T) {
	svc, medsRepo, _ := newTestStack()
	ctx := context.Background()

	a := medications.Medication{ID: "ma", UserID: household.UserPaolo, Name: "Tachipirina", SharedID: "tachipirina", StockQuantity: intp(6), StockThreshold: intp(2)}
	b := medications.Medication{ID: "mb", UserID: household.UserBarbara, Name: "Tachipirina", SharedID: "tachipirina", StockQuantity: intp(6), StockThreshold: intp(2)}
	_ = medsRepo.Upsert(ctx, a)
	_ = medsRepo.Upsert(ctx, b)

	date := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if err := svc.SetTaken(ctx, date, "ma", true); err != nil {
		t.Fatalf("SetTaken error: %v", err)
	}

	ga, _ := medsRepo.GetByID(ctx, "ma")
	gb, _ := medsRepo.GetByID(ctx, "mb")
	if *ga.StockQuantity != 5 || *gb.StockQuantity != 5 {
		t.Fatalf("expected both rows at 5, got %d and %d", *ga.StockQuantity, *gb.StockQuantity)
	}
}

func TestSetTaken_NotifiesWhenProjectedAtThreshold(t *testing.T) {
	svc, medsRepo, notifier := newTestStack()
	ctx := context.Background()

	// 6 -> 5 con umbral 5: el aviso se decide con la cantidad proyectada.
	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "Eutirox 50", StockQuantity: intp(6), StockThreshold: intp(5)}
	_ = medsRepo.Upsert(ctx, m)

	date := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if err := svc.SetTaken(ctx, date, "m1", true); err != nil {
		t.Fatalf("SetTaken error: %v", err)
	}

	select {
	case call := <-notifier.calls:
		if call.name != "Eutirox 50" || call.remaining != 5 {
			t.Fatalf("unexpected notification: %#v", call)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a low-stock notification")
	}
}

func TestSetTaken_NoNotificationAboveThresholdOrOnUnmark(t *testing.T) {
	svc, medsRepo, notifier := newTestStack()
	ctx := context.Background()

	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "Omega 3", StockQuantity: intp(10), StockThreshold: intp(2)}
	_ = medsRepo.Upsert(ctx, m)

	date := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if err := svc.SetTaken(ctx, date, "m1", true); err != nil {
		t.Fatalf("take error: %v", err)
	}
	// Des-marcar nunca avisa, aunque el stock esté bajo.
	if err := svc.SetTaken(ctx, date, "m1", false); err != nil {
		t.Fatalf("untake error: %v", err)
	}

	select {
	case call := <-notifier.calls:
		t.Fatalf("unexpected notification: %#v", call)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSnapshot_KeysByDayAndMedication(t *testing.T) {
	svc, medsRepo, _ := newTestStack()
	ctx := context.Background()

	_ = medsRepo.Upsert(ctx, medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "A"})
	date := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if err := svc.SetTaken(ctx, date, "m1", true); err != nil {
		t.Fatalf("SetTaken error: %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if !snap[doselog.Key(date, "m1")] {
		t.Fatalf("expected snapshot to contain %s", doselog.Key(date, "m1"))
	}
	if len(snap) != 1 {
		t.Fatalf("expected a single entry, got %d", len(snap))
	}
}

func TestDeleteByMedication_RemovesAllItsMarks(t *testing.T) {
	svc, medsRepo, _ := newTestStack()
	ctx := context.Background()

	_ = medsRepo.Upsert(ctx, medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "A"})
	_ = medsRepo.Upsert(ctx, medications.Medication{ID: "m2", UserID: household.UserPaolo, Name: "B"})

	d1 := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	_ = svc.SetTaken(ctx, d1, "m1", true)
	_ = svc.SetTaken(ctx, d2, "m1", true)
	_ = svc.SetTaken(ctx, d1, "m2", true)

	if err := svc.DeleteByMedication(ctx, "m1"); err != nil {
		t.Fatalf("DeleteByMedication error: %v", err)
	}

	snap, _ := svc.Snapshot(ctx)
	if len(snap) != 1 || !snap[doselog.Key(d1, "m2")] {
		t.Fatalf("expected only m2's mark to survive, got %#v", snap)
	}
}
