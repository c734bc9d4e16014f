// Package di provides the bean container that auto-configurations register
// engine configurations, engines and their links into.
//
// It supports eager, lazy, and singleton registration modes with type-safe
// resolution using Go generics. Registration order is recorded and drives
// ResolveAll, which collects every bean assignable to a type (for example
// all configurers for one engine) in the order they were registered.
//
// # Registration
//
//	c.Register(di.Beans.DataSource, func() (*sql.DB, error) { return sql.Open(...) })
//	created, err := c.RegisterIfAbsent(di.Beans.TransactionManager, newTxManager)
//
// # Resolution
//
//	db := di.MustResolve[*sql.DB](c, di.Beans.DataSource)
//	configurers, err := di.ResolveAll[engine.Configurer[*dmn.EngineConfiguration]](c)
package di
