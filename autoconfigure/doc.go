// Package autoconfigure wires the decision engine, the process engine and
// their shared transaction infrastructure into a bean container.
//
// Each auto-configuration declares an activation condition and its ordering
// relative to the others. The Runner sorts them, evaluates the conditions
// against the bound config and registered beans, and configures the ones
// that match:
//
//	env := autoconfigure.NewEnvironment(cfg)
//	report, err := autoconfigure.Default().Run(ctx, env)
//
// Beans are only created when absent, so an application can register its
// own dmnEngineConfiguration, dataSource or transactionManager first.
// Configurers are collected from the container by type:
//
//	env.Container.RegisterSingleton("strictOff", engine.Configurer[*dmn.EngineConfiguration](
//	    func(c *dmn.EngineConfiguration) { c.StrictMode = false }))
package autoconfigure
