package component

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/dmnkit/errors"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "db", health: Health{Name: "db", Status: StatusHealthy}}

	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "db"}
	r.Register(c)

	err := r.Register(&mockComponent{name: "db"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "db"}
	r.Register(c)

	got := r.Get("db")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "db" {
		t.Errorf("expected 'db', got %q", got.Name())
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry()
	got := r.Get("missing")
	if got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{
		name: "db", startOrder: &order,
		health: Health{Name: "db", Status: StatusHealthy},
	})
	r.Register(&mockComponent{
		name: "process-engine", startOrder: &order,
		health: Health{Name: "process-engine", Status: StatusHealthy},
	})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(order))
	}
	if order[0] != "db" || order[1] != "process-engine" {
		t.Errorf("expected start order [db, process-engine], got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "db", startErr: fmt.Errorf("connection refused")})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "db", stopOrder: &order, health: Health{Name: "db", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "process-engine", stopOrder: &order, health: Health{Name: "process-engine", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "dmn-engine", stopOrder: &order, health: Health{Name: "dmn-engine", Status: StatusHealthy}})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != "dmn-engine" || order[1] != "process-engine" || order[2] != "db" {
		t.Errorf("expected reverse stop order [dmn-engine, process-engine, db], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "db", stopOrder: &order})

	// Don't start, then stop
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name: "db", stopErr: fmt.Errorf("stop failed"),
		health: Health{Name: "db", Status: StatusHealthy},
	})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name:   "db",
		health: Health{Name: "db", Status: StatusHealthy, Message: "connected"},
	})
	r.Register(&mockComponent{
		name:   "process-engine",
		health: Health{Name: "process-engine", Status: StatusUnhealthy, Message: "timeout"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected db healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected process-engine unhealthy, got %s", results[1].Status)
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}

func TestRegisterDuplicateCode(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "dmn-engine"})
	err := r.Register(&mockComponent{name: "dmn-engine"})
	if !errors.HasCode(err, errors.ErrCodeAlreadyRegistered) {
		t.Errorf("expected ALREADY_REGISTERED, got %v", err)
	}
}

func TestStartAllIsIdempotent(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "db", startOrder: &order})

	_ = r.StartAll(context.Background())
	_ = r.StartAll(context.Background())
	if len(order) != 1 {
		t.Errorf("expected a single start, got %v", order)
	}
}

func TestAllPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "datasource"})
	r.Register(&mockComponent{name: "dmn-engine"})
	all := r.All()
	if len(all) != 2 || all[0].Name() != "datasource" || all[1].Name() != "dmn-engine" {
		t.Errorf("unexpected order %v", all)
	}
}

func TestFuncLifecycle(t *testing.T) {
	var events []string
	f := NewFunc("dmn-engine", func(ctx context.Context) error {
		events = append(events, "start")
		return nil
	}).WithStop(func(ctx context.Context) error {
		events = append(events, "stop")
		return nil
	})

	if h := f.Health(context.Background()); h.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if h := f.Health(context.Background()); h.Status != StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}
	if err := f.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := f.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
	if len(events) != 2 || events[0] != "start" || events[1] != "stop" {
		t.Errorf("expected one start and one stop, got %v", events)
	}
}

func TestFuncStartError(t *testing.T) {
	f := NewFunc("broken", func(ctx context.Context) error { return fmt.Errorf("no tables") })
	if err := f.Start(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if f.Started() {
		t.Error("failed start must not mark the component started")
	}
}

func TestFuncHealthCheck(t *testing.T) {
	f := NewFunc("db", nil).WithHealthCheck(func(ctx context.Context) error {
		return fmt.Errorf("ping failed")
	})
	_ = f.Start(context.Background())

	h := f.Health(context.Background())
	if h.Status != StatusUnhealthy || h.Message != "ping failed" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestFuncDescribe(t *testing.T) {
	f := NewFunc("dmn-engine", nil).WithDescription(Description{Type: "engine", Details: "2 resources"})
	var d Describable = f
	desc := d.Describe()
	if desc.Name != "dmn-engine" || desc.Type != "engine" || desc.Details != "2 resources" {
		t.Errorf("unexpected description %+v", desc)
	}
}
