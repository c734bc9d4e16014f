// Package bootstrap orchestrates application lifecycle for dmnkit services.
//
// It provides typed configuration, an auto-configuration phase, component
// registration, dependency injection, and startup/shutdown hooks.
//
// # Quick Start
//
//	cfg := autoconfigure.DefaultConfig()
//	if err := config.LoadConfig("dmnkit", cfg); err != nil {
//	    log.Fatal(err)
//	}
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Startup runs the auto-configurations (data source, transaction manager,
// DMN engine, process engine), starts the components they registered in
// registration order, runs hooks, and prints a summary with the condition
// report. Shutdown stops components in reverse order on OS signals.
package bootstrap
