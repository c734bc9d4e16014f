package bpmn

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"

	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/resource"
)

func memDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

type recordingConfigurator struct {
	name     string
	priority int
	calls    *[]string
	err      error
}

func (r *recordingConfigurator) Priority() int { return r.priority }

func (r *recordingConfigurator) BeforeInit(*EngineConfiguration) {
	*r.calls = append(*r.calls, "before:"+r.name)
}

func (r *recordingConfigurator) Configure(*EngineConfiguration) error {
	*r.calls = append(*r.calls, "configure:"+r.name)
	return r.err
}

type fakeSubEngine struct {
	name  string
	calls *[]string
	fail  bool
}

func (f *fakeSubEngine) Name() string { return f.name }

func (f *fakeSubEngine) Start(context.Context) error {
	if f.fail {
		return fmt.Errorf("%s refused to start", f.name)
	}
	*f.calls = append(*f.calls, "start:"+f.name)
	return nil
}

func (f *fakeSubEngine) Stop(context.Context) error {
	*f.calls = append(*f.calls, "stop:"+f.name)
	return nil
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDefaultProperties(t *testing.T) {
	p := DefaultProperties()
	if !p.Enabled || !p.DeployResources || p.ResourceLocation != "processes/" {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if !equal(p.ResourceSuffixes, []string{"**.bpmn20.xml", "**.bpmn"}) {
		t.Errorf("unexpected suffixes: %v", p.ResourceSuffixes)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	p.Name = ""
	if err := p.Validate(); !errors.HasCode(err, errors.ErrCodeInvalidProperties) {
		t.Errorf("expected INVALID_PROPERTIES, got %v", err)
	}
}

func TestAddConfiguratorIgnoresNil(t *testing.T) {
	cfg := NewEngineConfiguration()
	cfg.AddConfigurator(nil)
	if len(cfg.Configurators) != 0 {
		t.Errorf("expected nil configurator to be ignored")
	}
}

func TestNewEngineConfiguratorOrder(t *testing.T) {
	var calls []string
	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	cfg.AddConfigurator(&recordingConfigurator{name: "late", priority: 300, calls: &calls}).
		AddConfigurator(&recordingConfigurator{name: "early", priority: 100, calls: &calls}).
		AddConfigurator(&recordingConfigurator{name: "tie", priority: 300, calls: &calls})

	if _, err := NewEngine(cfg); err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	want := []string{
		"before:early", "before:late", "before:tie",
		"configure:early", "configure:late", "configure:tie",
	}
	if !equal(calls, want) {
		t.Errorf("expected %v, got %v", want, calls)
	}
}

func TestNewEngineErrors(t *testing.T) {
	if _, err := NewEngine(nil); !errors.HasCode(err, errors.ErrCodeEngineBuild) {
		t.Errorf("expected ENGINE_BUILD_FAILED for nil configuration, got %v", err)
	}

	_, err := NewEngine(NewEngineConfiguration())
	if !errors.HasCode(err, errors.ErrCodeMissingCollaborator) {
		t.Errorf("expected MISSING_COLLABORATOR without data source, got %v", err)
	}

	var calls []string
	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	cfg.AddConfigurator(&recordingConfigurator{name: "bad", calls: &calls, err: fmt.Errorf("boom")})
	if _, err := NewEngine(cfg); !errors.HasCode(err, errors.ErrCodeEngineBuild) {
		t.Errorf("expected ENGINE_BUILD_FAILED from configurator, got %v", err)
	}
}

func TestBeforeInitCanSupplyDataSource(t *testing.T) {
	db := memDB(t)
	cfg := NewEngineConfiguration()
	cfg.AddConfigurator(&dataSourceConfigurator{db: db})
	if _, err := NewEngine(cfg); err != nil {
		t.Fatalf("expected BeforeInit to supply the data source: %v", err)
	}
}

type dataSourceConfigurator struct{ db *sql.DB }

func (d *dataSourceConfigurator) Priority() int { return 0 }

func (d *dataSourceConfigurator) BeforeInit(cfg *EngineConfiguration) { cfg.DataSource = d.db }

func (d *dataSourceConfigurator) Configure(*EngineConfiguration) error { return nil }

func TestEngineStartStopSubEngines(t *testing.T) {
	var calls []string
	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	cfg.AddEngine("cfg.b", &fakeSubEngine{name: "b", calls: &calls})
	cfg.AddEngine("cfg.a", &fakeSubEngine{name: "a", calls: &calls})
	cfg.AddEngineConfiguration("cfg.a", &engine.Configuration{})

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	ctx := context.Background()
	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := e.Start(ctx); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if err := e.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if !equal(calls, want) {
		t.Errorf("expected %v, got %v", want, calls)
	}
	if _, ok := e.SubEngine("cfg.a"); !ok {
		t.Error("expected sub-engine cfg.a")
	}
}

func TestEngineStartRollsBackOnFailure(t *testing.T) {
	var calls []string
	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	cfg.AddEngine("cfg.a", &fakeSubEngine{name: "a", calls: &calls})
	cfg.AddEngine("cfg.b", &fakeSubEngine{name: "b", calls: &calls, fail: true})

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := e.Start(context.Background()); err == nil {
		t.Fatal("expected start failure")
	}
	want := []string{"start:a", "stop:a"}
	if !equal(calls, want) {
		t.Errorf("expected %v, got %v", want, calls)
	}
}

func TestEngineRestartDoesNotRedeploy(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "processes/order.bpmn", []byte("<definitions/>"), 0644)
	res, err := resource.Discover(fs, "processes/", DefaultResourceSuffixes, true)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	var calls []string
	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	cfg.DeploymentName = "orders"
	cfg.DeploymentResources = res
	cfg.AddEngine("cfg.a", &fakeSubEngine{name: "a", calls: &calls})

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := e.Start(ctx); err != nil {
			t.Fatalf("Start %d failed: %v", i, err)
		}
		if err := e.Stop(ctx); err != nil {
			t.Fatalf("Stop %d failed: %v", i, err)
		}
	}

	if deps := e.Deployments(); len(deps) != 1 || len(deps[0].Resources) != 1 {
		t.Errorf("expected a single deployment across restarts, got %+v", deps)
	}
	want := []string{"start:a", "stop:a", "start:a", "stop:a"}
	if !equal(calls, want) {
		t.Errorf("expected sub-engines restarted %v, got %v", want, calls)
	}
}
