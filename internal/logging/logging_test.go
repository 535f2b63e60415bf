package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestInitWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	defer func() { Logger = Logger.Output(&bytes.Buffer{}) }()

	Info().Str("window", "a").Msg("opened")
	Debug().Msg("hidden at info level")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not a single JSON object: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "opened" || entry["window"] != "a" || entry["level"] != "info" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts field")
	}
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	SetDebug(true)
	defer SetDebug(false)

	Debug().Msg("visible")
	if buf.Len() == 0 {
		t.Error("debug line not written with SetDebug(true)")
	}
}
