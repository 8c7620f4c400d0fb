// Copyright (c) 2021 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package logger

// Logger is the diagnostic sink Graph and Vector call into on rehash,
// rollback, and other non-fatal storage events. Decoupling it from a
// concrete logging package lets tvgraph embed into a host that already
// has its own logger (e.g. aristanetworks/glog) without forcing that
// choice on every caller of graph.New/NewVector.
type Logger interface {
	// Info logs at the info level
	Info(args ...interface{})
	// Infof logs at the info level, with format
	Infof(format string, args ...interface{})
	// Error logs at the error level
	Error(args ...interface{})
	// Errorf logs at the error level, with format
	Errorf(format string, args ...interface{})
	// Fatal logs at the fatal level
	Fatal(args ...interface{})
	// Fatalf logs at the fatal level, with format
	Fatalf(format string, args ...interface{})
}
