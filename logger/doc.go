// Package logger provides structured logging for dmnkit using zerolog.
//
// Loggers are tagged per component (auto-configuration, engine, data source)
// and accept field maps so bootstrap steps can be correlated in JSON output.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
// Engines look up named loggers; bootstrap registers them over the app logger
// before auto-configuration runs.
//
//	log := logger.Get("dmn-engine")
//	log.Info("deployment resources attached", logger.Fields(logger.FieldResourceCount, 3))
package logger
