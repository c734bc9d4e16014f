package dmn

import (
	"context"
	"database/sql"
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

func TestDefaultProperties(t *testing.T) {
	p := DefaultProperties()
	if !p.Enabled || !p.DeployResources || p.HistoryEnabled || !p.EnableSafeXML || !p.StrictMode {
		t.Errorf("unexpected flag defaults: %+v", p)
	}
	if p.DeploymentName != "SpringBootAutoDeployment" || p.ResourceLocation != "dmn/" {
		t.Errorf("unexpected defaults: %+v", p)
	}
	want := []string{"**.dmn", "**.dmn.xml", "**.dmn11", "**.dmn11.xml"}
	if len(p.ResourceSuffixes) != len(want) {
		t.Fatalf("expected %d suffixes, got %v", len(want), p.ResourceSuffixes)
	}
	for i := range want {
		if p.ResourceSuffixes[i] != want[i] {
			t.Errorf("suffix %d: expected %q, got %q", i, want[i], p.ResourceSuffixes[i])
		}
	}

	p.ResourceSuffixes[0] = "changed"
	if DefaultResourceSuffixes[0] != "**.dmn" {
		t.Error("defaults must not share the suffix slice")
	}
}

func TestPropertiesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Properties)
		wantErr bool
	}{
		{"defaults", func(p *Properties) {}, false},
		{"no suffixes", func(p *Properties) { p.ResourceSuffixes = nil }, true},
		{"blank suffix", func(p *Properties) { p.ResourceSuffixes = []string{"**.dmn", " "} }, true},
		{"no name", func(p *Properties) { p.DeploymentName = "" }, true},
		{"deploy disabled", func(p *Properties) {
			p.DeployResources = false
			p.ResourceSuffixes = nil
			p.DeploymentName = ""
		}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultProperties()
			tc.mutate(&p)
			err := p.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.HasCode(err, errors.ErrCodeInvalidProperties) {
				t.Errorf("expected INVALID_PROPERTIES, got %v", err)
			}
		})
	}
}

func TestNewEngineConfiguration(t *testing.T) {
	cfg := NewEngineConfiguration()
	if cfg.DatabaseSchemaUpdate != engine.SchemaUpdateTrue || !cfg.EnableSafeXML || !cfg.StrictMode {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HasDeploymentResources() || cfg.DeploymentName != "" {
		t.Error("expected no deployment resources on a fresh configuration")
	}
	var _ engine.Configurable = cfg
}

func TestNewEngineRequiresDataSource(t *testing.T) {
	if _, err := NewEngine(nil); !errors.HasCode(err, errors.ErrCodeEngineBuild) {
		t.Errorf("expected ENGINE_BUILD_FAILED for nil configuration, got %v", err)
	}
	_, err := NewEngine(NewEngineConfiguration())
	if !errors.HasCode(err, errors.ErrCodeEngineBuild) {
		t.Fatalf("expected ENGINE_BUILD_FAILED, got %v", err)
	}
	if !errors.HasCode(err, errors.ErrCodeMissingCollaborator) {
		t.Errorf("expected wrapped MISSING_COLLABORATOR, got %v", err)
	}
}

func TestEngineStartDeploysResources(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "dmn/a.dmn", []byte("<definitions/>"), 0644)
	_ = afero.WriteFile(fs, "dmn/sub/b.dmn.xml", []byte("<definitions/>"), 0644)
	res, err := resource.Discover(fs, "dmn/", DefaultResourceSuffixes, true)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	cfg.DeploymentResources = res
	cfg.DeploymentName = DefaultDeploymentName

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

	deps := e.Deployments()
	if len(deps) != 1 {
		t.Fatalf("expected one deployment, got %d", len(deps))
	}
	if deps[0].Name != DefaultDeploymentName || len(deps[0].Resources) != 2 {
		t.Errorf("unexpected deployment %+v", deps[0])
	}
	if !e.Started() {
		t.Error("expected engine to be started")
	}
	if e.Configuration() != cfg {
		t.Error("expected engine to keep its configuration")
	}

	_ = e.Stop(ctx)
	if e.Started() {
		t.Error("expected engine to be stopped")
	}

	if err := e.Start(ctx); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if !e.Started() {
		t.Error("expected engine to be started again")
	}
	if got := e.Deployments(); len(got) != 1 || got[0].ID != deps[0].ID {
		t.Errorf("expected restart to keep the single deployment, got %+v", got)
	}
}

func TestEngineStartWithoutResources(t *testing.T) {
	cfg := NewEngineConfiguration()
	cfg.DataSource = memDB(t)
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(e.Deployments()) != 0 {
		t.Error("expected no deployments")
	}
}
