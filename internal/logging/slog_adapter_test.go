// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogAdapter_RoutesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	slogger := NewSlogLoggerWith(zerolog.New(&buf))

	slogger.Info("service started", "service", "http-server")

	out := buf.String()
	if !strings.Contains(out, `"message":"service started"`) {
		t.Errorf("expected message in output: %s", out)
	}
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("expected attr as structured field: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("expected info level: %s", out)
	}
}

func TestSlogAdapter_GroupsBecomeDottedKeys(t *testing.T) {
	var buf bytes.Buffer
	slogger := NewSlogLoggerWith(zerolog.New(&buf))

	slogger.WithGroup("supervisor").Warn("service restarting", "attempt", 2)

	out := buf.String()
	if !strings.Contains(out, `"supervisor.attempt":2`) {
		t.Errorf("expected dotted group key: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level: %s", out)
	}
}

func TestSlogAdapter_WithAttrsCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	slogger := NewSlogLoggerWith(zerolog.New(&buf)).With("component", "tree")

	slogger.Error("service failed")

	out := buf.String()
	if !strings.Contains(out, `"component":"tree"`) {
		t.Errorf("expected pre-bound attr: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("expected error level: %s", out)
	}
}
