package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/medications"
	"github.com/paselsoft/MediCoppia-Tracker/internal/platform/logger"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testItemRepo struct {
	byID map[string]Item
}

func newTestItemRepo() *testItemRepo {
	return &testItemRepo{byID: map[string]Item{}}
}

func (r *testItemRepo) Upsert(ctx context.Context, it Item) error {
	if it.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[it.ID] = it
	return nil
}

func (r *testItemRepo) GetByID(ctx context.Context, id string) (Item, error) {
	it, ok := r.byID[id]
	if !ok {
		return Item{}, errRepoNotFound
	}
	return it, nil
}

func (r *testItemRepo) ListAll(ctx context.Context) ([]Item, error) {
	out := make([]Item, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}
	return out, nil
}

func (r *testItemRepo) AdjustQuantity(ctx context.Context, id string, delta int) (Item, error) {
	it, ok := r.byID[id]
	if !ok {
		return Item{}, errRepoNotFound
	}
	it.Quantity += delta
	r.byID[id] = it
	return it, nil
}

func (r *testItemRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

type testLogRepo struct {
	logs []Log
}

func (r *testLogRepo) Append(ctx context.Context, l Log) error {
	r.logs = append(r.logs, l)
	return nil
}

func (r *testLogRepo) ListAll(ctx context.Context) ([]Log, error) {
	out := make([]Log, len(r.logs))
	copy(out, r.logs)
	return out, nil
}

type testMedsRepo struct {
	byID map[string]medications.Medication
	seq  []string
}

func newTestMedsRepo() *testMedsRepo {
	return &testMedsRepo{byID: map[string]medications.Medication{}}
}

func (r *testMedsRepo) Upsert(ctx context.Context, m medications.Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		r.seq = append(r.seq, m.ID)
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testMedsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testMedsRepo) ListAll(ctx context.Context) ([]medications.Medication, error) {
	out := make([]medications.Medication, 0, len(r.seq))
	for _, id := range r.seq {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *testMedsRepo) ListByUser(ctx context.Context, userID household.UserID) ([]medications.Medication, error) {
	out := make([]medications.Medication, 0)
	for _, id := range r.seq {
		if m := r.byID[id]; m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testMedsRepo) ListBySharedID(ctx context.Context, sharedID string) ([]medications.Medication, error) {
	out := make([]medications.Medication, 0)
	for _, id := range r.seq {
		if m := r.byID[id]; m.SharedID == sharedID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testMedsRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func intp(n int) *int { return &n }

func testLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error})
}

func newTestService() (*Service, *testItemRepo, *testLogRepo, *testMedsRepo) {
	items := newTestItemRepo()
	logs := &testLogRepo{}
	meds := newTestMedsRepo()
	return NewService(items, logs, meds, testLogger()), items, logs, meds
}

// -------------------------
// Tests
// -------------------------

func TestResolve_Priority(t *testing.T) {
	// Producto enlazado gana aunque sobrevivan campos legacy sucios.
	m := medications.Medication{ID: "m1", ProductID: "prod-1", SharedID: "slug", StockQuantity: intp(3)}
	if l := Resolve(m); l.Mode != LinkageLinked || l.ProductID != "prod-1" {
		t.Fatalf("expected linked, got %#v", l)
	}

	m = medications.Medication{ID: "m1", SharedID: "slug", StockQuantity: intp(3)}
	if l := Resolve(m); l.Mode != LinkageLegacy || l.GroupKey != "slug" {
		t.Fatalf("expected legacy, got %#v", l)
	}

	m = medications.Medication{ID: "m1", StockQuantity: intp(3)}
	if l := Resolve(m); l.Mode != LinkagePrivate {
		t.Fatalf("expected private, got %#v", l)
	}

	m = medications.Medication{ID: "m1"}
	if l := Resolve(m); l.Mode != LinkageNone {
		t.Fatalf("expected none, got %#v", l)
	}
}

func TestApplyDoseChange_Linked_SingleAdjustment(t *testing.T) {
	svc, items, _, _ := newTestService()
	_ = items.Upsert(context.Background(), Item{ID: "prod-1", Name: "Eutirox", Quantity: 10, Threshold: 3})

	m := medications.Medication{ID: "m1", ProductID: "prod-1"}
	st, tracked, err := svc.ApplyDoseChange(context.Background(), m, -1)
	if err != nil {
		t.Fatalf("ApplyDoseChange error: %v", err)
	}
	if !tracked {
		t.Fatalf("linked medication must be tracked")
	}
	if st.Quantity != 9 || st.Threshold != 3 {
		t.Fatalf("expected projected 9/3, got %d/%d", st.Quantity, st.Threshold)
	}
	if it := items.byID["prod-1"]; it.Quantity != 9 {
		t.Fatalf("expected item decremented once, got %d", it.Quantity)
	}
}

func TestApplyDoseChange_Legacy_FansOutToBothUsers(t *testing.T) {
	svc, _, _, meds := newTestService()

	a := medications.Medication{ID: "ma", UserID: household.UserPaolo, Name: "Tachipirina", SharedID: "tachipirina", StockQuantity: intp(8), StockThreshold: intp(2)}
	b := medications.Medication{ID: "mb", UserID: household.UserBarbara, Name: "Tachipirina", SharedID: "tachipirina", StockQuantity: intp(8)}
	_ = meds.Upsert(context.Background(), a)
	_ = meds.Upsert(context.Background(), b)

	st, tracked, err := svc.ApplyDoseChange(context.Background(), a, -1)
	if err != nil {
		t.Fatalf("ApplyDoseChange error: %v", err)
	}
	if !tracked {
		t.Fatalf("legacy medication with quantity must be tracked")
	}
	if st.Quantity != 7 || st.Threshold != 2 {
		t.Fatalf("expected projected 7/2, got %d/%d", st.Quantity, st.Threshold)
	}

	// Dos personas, un frasco: ambos registros bajan.
	if q := *meds.byID["ma"].StockQuantity; q != 7 {
		t.Fatalf("expected paolo's row at 7, got %d", q)
	}
	if q := *meds.byID["mb"].StockQuantity; q != 7 {
		t.Fatalf("expected barbara's row at 7, got %d", q)
	}
}

func TestApplyDoseChange_Legacy_NilQuantityIsNoop(t *testing.T) {
	svc, _, _, _ := newTestService()

	m := medications.Medication{ID: "m1", SharedID: "slug"}
	_, tracked, err := svc.ApplyDoseChange(context.Background(), m, -1)
	if err != nil {
		t.Fatalf("ApplyDoseChange error: %v", err)
	}
	if tracked {
		t.Fatalf("legacy row without quantity must not be tracked")
	}
}

func TestApplyDoseChange_Private_RoundTripNetsZero(t *testing.T) {
	svc, _, _, meds := newTestService()

	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, Name: "Omega 3", StockQuantity: intp(5), StockThreshold: intp(1)}
	_ = meds.Upsert(context.Background(), m)

	if _, _, err := svc.ApplyDoseChange(context.Background(), m, -1); err != nil {
		t.Fatalf("take error: %v", err)
	}
	after, _ := meds.GetByID(context.Background(), "m1")
	if *after.StockQuantity != 4 {
		t.Fatalf("expected 4 after take, got %d", *after.StockQuantity)
	}

	if _, _, err := svc.ApplyDoseChange(context.Background(), after, +1); err != nil {
		t.Fatalf("untake error: %v", err)
	}
	final, _ := meds.GetByID(context.Background(), "m1")
	if *final.StockQuantity != 5 {
		t.Fatalf("expected round trip to net zero, got %d", *final.StockQuantity)
	}
}

func TestApplyDoseChange_QuantityMayGoNegative(t *testing.T) {
	svc, _, _, meds := newTestService()

	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, StockQuantity: intp(0)}
	_ = meds.Upsert(context.Background(), m)

	st, _, err := svc.ApplyDoseChange(context.Background(), m, -1)
	if err != nil {
		t.Fatalf("ApplyDoseChange error: %v", err)
	}
	if st.Quantity != -1 {
		t.Fatalf("quantity is not clamped, expected -1, got %d", st.Quantity)
	}
}

func TestRefill_AddsPacksAndLogsOnce(t *testing.T) {
	svc, items, logs, _ := newTestService()

	now := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_ = items.Upsert(context.Background(), Item{ID: "prod-1", Name: "Eutirox 50", Quantity: 4, Threshold: 5, PackSize: 50})

	it, l, err := svc.Refill(context.Background(), "prod-1", 2, 30)
	if err != nil {
		t.Fatalf("Refill error: %v", err)
	}
	if it.Quantity != 64 {
		t.Fatalf("expected 4 + 2x30 = 64, got %d", it.Quantity)
	}
	if it.PackSize != 30 {
		t.Fatalf("expected pack size remembered as 30, got %d", it.PackSize)
	}

	if len(logs.logs) != 1 {
		t.Fatalf("expected exactly one refill log, got %d", len(logs.logs))
	}
	if l.AmountAdded != 60 || l.PacksAdded != 2 || l.Date != now {
		t.Fatalf("unexpected log entry: %#v", l)
	}
	if l.ProductName != "Eutirox 50" || l.InventoryID != "prod-1" {
		t.Fatalf("log must carry the product snapshot, got %#v", l)
	}
}

func TestRefill_RejectsNonPositiveInput(t *testing.T) {
	svc, items, _, _ := newTestService()
	_ = items.Upsert(context.Background(), Item{ID: "prod-1", Name: "X", Quantity: 4})

	if _, _, err := svc.Refill(context.Background(), "prod-1", 0, 30); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for 0 packs, got %v", err)
	}
	if _, _, err := svc.Refill(context.Background(), "prod-1", 2, 0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for 0 pack size, got %v", err)
	}
	if it := items.byID["prod-1"]; it.Quantity != 4 {
		t.Fatalf("failed refill must not touch stock, got %d", it.Quantity)
	}
}

func TestListLogs_NewestFirst(t *testing.T) {
	svc, _, logs, _ := newTestService()

	t0 := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	logs.logs = []Log{
		{ID: "l1", Date: t0},
		{ID: "l2", Date: t0.Add(time.Hour)},
	}

	got, err := svc.ListLogs(context.Background())
	if err != nil {
		t.Fatalf("ListLogs error: %v", err)
	}
	if got[0].ID != "l2" || got[1].ID != "l1" {
		t.Fatalf("expected newest first, got %v then %v", got[0].ID, got[1].ID)
	}
}

func TestHydrate_ProjectsLinkedStockWithoutWriting(t *testing.T) {
	svc, items, _, meds := newTestService()
	_ = items.Upsert(context.Background(), Item{ID: "prod-1", Quantity: 42, Threshold: 6})

	m := medications.Medication{ID: "m1", UserID: household.UserPaolo, ProductID: "prod-1"}
	_ = meds.Upsert(context.Background(), m)

	out := svc.Hydrate(context.Background(), []medications.Medication{m})
	if out[0].StockQuantity == nil || *out[0].StockQuantity != 42 {
		t.Fatalf("expected projected quantity 42, got %#v", out[0].StockQuantity)
	}
	if out[0].StockThreshold == nil || *out[0].StockThreshold != 6 {
		t.Fatalf("expected projected threshold 6, got %#v", out[0].StockThreshold)
	}

	// La proyección es solo de lectura.
	stored, _ := meds.GetByID(context.Background(), "m1")
	if stored.StockQuantity != nil {
		t.Fatalf("hydration must never write back, got %#v", stored.StockQuantity)
	}
}

func TestShoppingList_GroupsSharedPoolIntoOneRow(t *testing.T) {
	meds := []medications.Medication{
		{ID: "ma", UserID: household.UserPaolo, Name: "Tachipirina", SharedID: "tachipirina", StockQuantity: intp(2), StockThreshold: intp(5)},
		{ID: "mb", UserID: household.UserBarbara, Name: "Tachipirina", SharedID: "tachipirina", StockQuantity: intp(2), StockThreshold: intp(5)},
		{ID: "mc", UserID: household.UserPaolo, Name: "Omega 3", StockQuantity: intp(50), StockThreshold: intp(5)},
		{ID: "md", UserID: household.UserPaolo, Name: "Vecchia", IsArchived: true, StockQuantity: intp(0), StockThreshold: intp(5)},
	}

	list := ShoppingList(meds)
	if len(list) != 1 {
		t.Fatalf("expected a single row (shared pool, under threshold), got %d", len(list))
	}
	if list[0].Name != "Tachipirina" || len(list[0].Users) != 2 {
		t.Fatalf("expected one shared row with both users, got %#v", list[0])
	}
}

func TestShoppingList_ThresholdIsInclusive(t *testing.T) {
	meds := []medications.Medication{
		{ID: "m1", UserID: household.UserPaolo, Name: "Al limite", StockQuantity: intp(5), StockThreshold: intp(5)},
	}
	if got := ShoppingList(meds); len(got) != 1 {
		t.Fatalf("quantity equal to threshold must be listed, got %d rows", len(got))
	}
}

func TestGroups_MergesSamePoolEntries(t *testing.T) {
	meds := []medications.Medication{
		{ID: "ma", UserID: household.UserPaolo, Name: "Tachipirina", SharedID: "tachipirina", Timing: "A colazione", StockQuantity: intp(8)},
		{ID: "mb", UserID: household.UserBarbara, Name: "Tachipirina", SharedID: "tachipirina", Timing: "Dopo cena", StockQuantity: intp(8)},
		{ID: "mc", UserID: household.UserPaolo, Name: "Omega 3"},
	}

	groups := Groups(meds)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Entries) != 2 {
		t.Fatalf("expected shared pool with 2 entries, got %d", len(groups[0].Entries))
	}
	if groups[0].Stock == nil || groups[0].Stock.Quantity != 8 {
		t.Fatalf("expected group stock 8, got %#v", groups[0].Stock)
	}
	if groups[1].Stock != nil {
		t.Fatalf("untracked medication must have nil stock, got %#v", groups[1].Stock)
	}
}
