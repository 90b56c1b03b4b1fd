// Package logger provides structured logging for injectkit
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.WithComponent("container")
//	log.Debug("resolved", logger.Fields(logger.FieldContract, "app.Repo"))
package logger
