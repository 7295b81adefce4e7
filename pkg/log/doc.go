// Package log is a small wrapper around the standard library logger that
// gives every subsystem of fiszki a named logger.
//
// Every line carries a level and the service name:
//
//	2025/03/01 10:00:00.000000 WARN [search] loading custom words: database is locked
//
// # Usage
//
//	l := log.ForService("dataset")
//	l.Infof("loaded %d vocabulary entries", n)
//	l.Debugf("raw file: %s", path) // printed only with debug enabled
//
// Debug output is enabled globally with the --debug flag, or per service
// with the debug_services config key:
//
//	log.Configure(debug, cfg.DebugServices)
//
// # Naming
//
// The package name collides with the standard library. Alias one of them
// when both are needed:
//
//	import (
//		stdlog "log"
//		"github.com/rubiojr/fiszki/pkg/log"
//	)
//
// # Testing
//
// Tests redirect output with SetOutput and a bytes.Buffer. Existing loggers
// follow the new writer.
package log
