// Copyright (c) 2021 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package glog

import (
	"io"
	"os"
	"strings"

	"github.com/aristanetworks/glog"
)

// Glog adapts aristanetworks/glog to logger.Logger so a Graph or Vector
// can be wired to SetLogger(&glog.Glog{...}) and have its rehash/rollback
// diagnostics flow through the host's existing glog sink.
type Glog struct {
	// InfoLevel gates Info/Infof behind glog's -v verbosity flag; the
	// zero value matches glog.Level's own default of always-on.
	InfoLevel glog.Level
}

// Info logs at the info level
func (g *Glog) Info(args ...interface{}) {
	glog.V(g.InfoLevel).Info(args...)
}

// Infof logs at the info level, with format
func (g *Glog) Infof(format string, args ...interface{}) {
	glog.V(g.InfoLevel).Infof(format, args...)
}

// Error logs at the error level
func (g *Glog) Error(args ...interface{}) {
	glog.Error(args...)
}

// Errorf logs at the error level, with format
func (g *Glog) Errorf(format string, args ...interface{}) {
	glog.Errorf(format, args...)
}

// Fatal logs at the fatal level
func (g *Glog) Fatal(args ...interface{}) {
	glog.Fatal(args...)
}

// Fatalf logs at the fatal level, with format
func (g *Glog) Fatalf(format string, args ...interface{}) {
	glog.Fatalf(format, args...)
}

// currentOutput tracks the writer last installed via SetOutput, so
// SuppressLines can wrap it and restore it again on reset.
var currentOutput io.Writer = os.Stderr

// SetOutput redirects glog's output and remembers w so a later
// SuppressLines call can filter on top of it.
func SetOutput(w io.Writer) {
	currentOutput = w
	glog.SetOutput(w)
}

// suppressWriter drops any line containing one of patterns before
// forwarding the remaining lines to w.
type suppressWriter struct {
	w        io.Writer
	patterns []string
}

func (s *suppressWriter) Write(p []byte) (int, error) {
	lines := strings.Split(string(p), "\n")
	kept := lines[:0]
	for _, line := range lines {
		suppressed := false
		for _, pat := range s.patterns {
			if strings.Contains(line, pat) {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, line)
		}
	}
	if _, err := s.w.Write([]byte(strings.Join(kept, "\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SuppressLines filters any log line containing one of patterns out of
// glog's current output until the returned reset function is called.
// Diagnostic tests that deliberately trigger a noisy rehash or rollback
// path use this to keep expected-error logging out of captured output.
func SuppressLines(patterns ...string) (reset func()) {
	prev := currentOutput
	SetOutput(&suppressWriter{w: prev, patterns: patterns})
	return func() { SetOutput(prev) }
}
