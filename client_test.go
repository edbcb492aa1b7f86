package vivasync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aminat2005/viva-sync/internal/syncqueue"
)

// inlineExec runs queued jobs synchronously so tests see their effects
// immediately.
type inlineExec struct{}

func (inlineExec) Submit(ctx context.Context, _ string, job syncqueue.Job) error {
	return job.Run(ctx)
}

func (inlineExec) Barrier(context.Context, string) error { return nil }
func (inlineExec) Stop()                                 {}

// testClock is a settable time source.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// testBackend is a minimal fake of the Viva API.
type testBackend struct {
	mealPosts   int32
	mealDeletes int32
	waterPosts  int32

	failMeals      int32 // when 1, meal POSTs return 500
	failDeletes    int32
	failWater      int32
	failActivities int32

	srv *httptest.Server
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/token/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "acc-1", "refresh": "ref-1"})
	})
	mux.HandleFunc("/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "email": "a@b.c",
			"targets": map[string]any{"calories_kcal": 2000, "water_l": 2.0, "steps": 8000, "workouts_per_week": 7},
		})
	})
	mux.HandleFunc("/api/meals/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			atomic.AddInt32(&b.mealPosts, 1)
			if atomic.LoadInt32(&b.failMeals) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 5, "category": "breakfast", "calories": 400})
		case http.MethodDelete:
			atomic.AddInt32(&b.mealDeletes, 1)
			if atomic.LoadInt32(&b.failDeletes) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		}
	})
	mux.HandleFunc("/api/activities/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&b.failActivities) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{
			map[string]any{"id": 3, "name": "Run", "calories_burned": 250, "duration_min": 30},
		}})
	})
	mux.HandleFunc("/api/steps/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{
			map[string]any{"id": 1, "steps": 4000, "date": r.URL.Query().Get("date")},
		}})
	})
	mux.HandleFunc("/api/water/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			atomic.AddInt32(&b.waterPosts, 1)
			if atomic.LoadInt32(&b.failWater) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 11, "amount": 0.25})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		}
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func newTestClient(t *testing.T, b *testBackend, clock *testClock, extra ...Option) *Client {
	t.Helper()
	opts := []Option{
		WithRetryPolicy(1, time.Millisecond, time.Millisecond),
		withExecutor(inlineExec{}),
	}
	if clock != nil {
		opts = append(opts, WithClock(clock.Now))
	}
	opts = append(opts, extra...)
	c := New(b.srv.URL, opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLogin_PersistsTokensAndRehydrates(t *testing.T) {
	b := newTestBackend(t)
	c := newTestClient(t, b, nil)

	if err := c.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := c.tokens.Access(); got != "acc-1" {
		t.Fatalf("access token = %q", got)
	}
	if got := c.WaterStatus().TargetL; got != 2.0 {
		t.Fatalf("water target = %v, want profile value", got)
	}
}

func TestNew_DoesNotMutateSuppliedHTTPClient(t *testing.T) {
	b := newTestBackend(t)
	shared := &http.Client{Timeout: 7 * time.Second}
	c := newTestClient(t, b, nil, WithHTTPClient(shared), WithHTTPTimeout(3*time.Second))

	if shared.Timeout != 7*time.Second {
		t.Fatalf("shared client timeout = %v, must be untouched", shared.Timeout)
	}
	if shared.Transport != nil {
		t.Fatal("shared client transport must be untouched")
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("client timeout = %v, want configured value", c.http.Timeout)
	}
	// The wired copy still works end to end.
	if _, err := c.Meals(context.Background(), "2026-08-31"); err != nil {
		t.Fatalf("call through cloned client: %v", err)
	}
}

func TestRecordMeal_SlotExclusivity(t *testing.T) {
	b := newTestBackend(t)
	c := newTestClient(t, b, nil)

	if _, err := c.RecordMeal(context.Background(), CreateMealRequest{
		Category: Breakfast, Name: "Oats", Calories: 400,
	}); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if c.CanLog(Breakfast) {
		t.Fatal("breakfast slot should be taken")
	}

	_, err := c.RecordMeal(context.Background(), CreateMealRequest{
		Category: Breakfast, Name: "More oats", Calories: 200,
	})
	if KindOf(err) != KindAlreadyLogged {
		t.Fatalf("kind = %s, want already_logged", KindOf(err))
	}
	if n := atomic.LoadInt32(&b.mealPosts); n != 1 {
		t.Fatalf("meal POSTs = %d, duplicate must not reach the wire", n)
	}
}

func TestRecordMeal_ReleasesSlotOnServerError(t *testing.T) {
	b := newTestBackend(t)
	c := newTestClient(t, b, nil)
	atomic.StoreInt32(&b.failMeals, 1)

	_, err := c.RecordMeal(context.Background(), CreateMealRequest{
		Category: Lunch, Name: "Rice", Calories: 600,
	})
	if KindOf(err) != KindServer {
		t.Fatalf("kind = %s", KindOf(err))
	}
	if !c.CanLog(Lunch) {
		t.Fatal("failed submission must release the slot")
	}
}

func TestDeleteMeal_RestoresSlotOnFailure(t *testing.T) {
	b := newTestBackend(t)
	c := newTestClient(t, b, nil)

	if _, err := c.RecordMeal(context.Background(), CreateMealRequest{
		Category: Breakfast, Name: "Oats", Calories: 400,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	atomic.StoreInt32(&b.failDeletes, 1)

	if err := c.DeleteMeal(context.Background(), Breakfast); KindOf(err) != KindServer {
		t.Fatalf("kind = %s", KindOf(err))
	}
	slot := c.MealSlotState(Breakfast)
	if !slot.Logged || slot.ServerID != "5" {
		t.Fatalf("slot = %+v, want restored pre-image", slot)
	}
}

func TestDeleteMeal_EmptySlot(t *testing.T) {
	b := newTestBackend(t)
	c := newTestClient(t, b, nil)

	if err := c.DeleteMeal(context.Background(), Dinner); KindOf(err) != KindNotFound {
		t.Fatalf("kind = %s", KindOf(err))
	}
	if n := atomic.LoadInt32(&b.mealDeletes); n != 0 {
		t.Fatalf("deletes = %d, empty slot must not reach the wire", n)
	}
}

func TestDayRollover_ResetsDayScopedState(t *testing.T) {
	b := newTestBackend(t)
	clock := newTestClock(time.Date(2026, 8, 31, 22, 0, 0, 0, time.Local))
	c := newTestClient(t, b, clock)

	if _, err := c.RecordMeal(context.Background(), CreateMealRequest{
		Category: Breakfast, Name: "Oats", Calories: 400,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := c.AddWater(context.Background(), 0.5); err != nil {
		t.Fatalf("add water: %v", err)
	}
	c.CheckDayBoundary() // persist today's marker

	clock.Advance(4 * time.Hour) // crosses midnight
	if !c.CheckDayBoundary() {
		t.Fatal("expected rollover")
	}
	if !c.CanLog(Breakfast) {
		t.Fatal("slots must reopen on the new day")
	}
	if got := c.WaterStatus().ConsumedL; got != 0 {
		t.Fatalf("consumed = %v, want fresh day", got)
	}
	if c.CheckDayBoundary() {
		t.Fatal("second check same day must be a no-op")
	}
}

func TestDailySummary_DegradesPerSource(t *testing.T) {
	b := newTestBackend(t)
	c := newTestClient(t, b, nil)
	atomic.StoreInt32(&b.failActivities, 1)

	s, err := c.DailySummary(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.BurnedKcal != 0 || s.WorkoutsLogged != 0 {
		t.Fatalf("failed half must degrade to zeros, got %+v", s)
	}
	if s.Steps != 4000 {
		t.Fatalf("steps = %d, healthy half must survive", s.Steps)
	}
	if s.StepProgress != 0.5 {
		t.Fatalf("step progress = %v", s.StepProgress)
	}
}
