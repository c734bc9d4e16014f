package bootstrap

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"

	"github.com/kbukum/dmnkit/autoconfigure"
	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/dmn"
	"github.com/kbukum/dmnkit/logger"
)

func newEngineApp(t *testing.T, mutate func(*autoconfigure.Config), opts ...Option) *App[*autoconfigure.Config] {
	t.Helper()
	cfg := autoconfigure.DefaultConfig()
	cfg.Version = "1.0.0"
	if mutate != nil {
		mutate(cfg)
	}

	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "dmn/approve.dmn", []byte("<definitions/>"), 0644)
	_ = afero.WriteFile(fs, "processes/order.bpmn", []byte("<definitions/>"), 0644)

	opts = append([]Option{WithLogger(logger.NewNop()), WithResourceFs(fs)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	app.Summary.SetOutput(&bytes.Buffer{})
	return app
}

func TestAppRunsAutoConfiguration(t *testing.T) {
	app := newEngineApp(t, nil)

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		pe, err := di.Resolve[*bpmn.Engine](app.Container, di.Beans.ProcessEngine)
		if err != nil {
			t.Fatalf("resolve process engine: %v", err)
		}
		sub, ok := pe.SubEngine(dmn.EngineConfigurationKey)
		if !ok {
			t.Fatal("expected the DMN engine to be owned by the process engine")
		}
		if !sub.(*dmn.Engine).Started() {
			t.Error("expected the DMN engine to be started")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	if app.Report == nil {
		t.Fatal("expected a report")
	}
	want := []string{autoconfigure.NameTransaction, autoconfigure.NameDMNEngine, autoconfigure.NameProcessEngine}
	matched := app.Report.Matched()
	if len(matched) != len(want) {
		t.Fatalf("expected %v matched, got %v", want, matched)
	}
	for i := range want {
		if matched[i] != want[i] {
			t.Errorf("matched[%d] = %q, want %q", i, matched[i], want[i])
		}
	}
}

func TestAppStandaloneDMNEngine(t *testing.T) {
	app := newEngineApp(t, func(cfg *autoconfigure.Config) {
		cfg.Flowable.Process.Enabled = false
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		eng, err := di.Resolve[*dmn.Engine](app.Container, di.Beans.DMNEngine)
		if err != nil {
			t.Fatalf("resolve dmn engine: %v", err)
		}
		if got := len(eng.Deployments()); got != 1 {
			t.Errorf("expected 1 deployment, got %d", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if app.Container.Has(di.Beans.ProcessEngine) {
		t.Error("expected no process engine bean")
	}
	if _, ok := app.Report.Entry(autoconfigure.NameProcessEngine); !ok {
		t.Error("expected the skipped process engine in the report")
	}
}

func TestAppAutoConfigurationDisabledEngines(t *testing.T) {
	app := newEngineApp(t, func(cfg *autoconfigure.Config) {
		cfg.Flowable.DMN.Enabled = false
		cfg.Flowable.Process.Enabled = false
	})

	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if app.Container.Has(di.Beans.DMNEngineConfiguration) {
		t.Error("expected no DMN configuration when disabled")
	}
	if got := app.Report.Skipped(); len(got) != 2 {
		t.Errorf("expected 2 skipped auto-configurations, got %v", got)
	}
}

func TestAppCustomRunner(t *testing.T) {
	runner := autoconfigure.NewRunner(autoconfigure.NewTransaction())
	app := newEngineApp(t, nil, WithAutoConfiguration(runner))

	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !app.Container.Has(di.Beans.TransactionManager) {
		t.Error("expected a transaction manager")
	}
	if app.Container.Has(di.Beans.DMNEngineConfiguration) {
		t.Error("expected only the transaction auto-configuration to run")
	}
}

func TestAppAutoConfigurationFailureStopsStartup(t *testing.T) {
	app := newEngineApp(t, nil)
	// Unregistered driver; config validation has already passed.
	app.Cfg.DataSource.Driver = "mysql"

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected startup to fail")
	}
	if ran {
		t.Error("task must not run when auto-configuration fails")
	}
}

func TestAppWithoutAutoConfigSection(t *testing.T) {
	app := newTestApp(t)

	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if app.Report != nil {
		t.Error("expected no report for configs without an auto-configuration section")
	}
}

func TestAppSeedsEngineLoggers(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: logger.FormatJSON}, "dmnkit", &buf)
	app := newEngineApp(t, func(cfg *autoconfigure.Config) {
		cfg.Flowable.Process.Enabled = false
	}, WithLogger(log))
	t.Cleanup(func() { autoconfigure.RegisterLoggers(logger.NewNop()) })

	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	var deployed bool
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var m map[string]any
		if json.Unmarshal(sc.Bytes(), &m) != nil {
			continue
		}
		if m["message"] == "Decision resources deployed" && m[logger.FieldComponent] == dmn.LoggerName {
			deployed = true
		}
	}
	if !deployed {
		t.Errorf("expected the decision engine to log through the app logger, got:\n%s", buf.String())
	}
}
