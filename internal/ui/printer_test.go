package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPrinterEmitJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo("json", &buf)

	if err := p.Emit(map[string]any{"update_available": true, "latest": "1.3.0"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got["latest"] != "1.3.0" {
		t.Errorf("latest = %v, want 1.3.0", got["latest"])
	}
}

func TestPrinterEmitYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo("yaml", &buf)

	if err := p.Emit(map[string]string{"latest": "1.3.0"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	var got map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if got["latest"] != "1.3.0" {
		t.Errorf("latest = %v, want 1.3.0", got["latest"])
	}
}

func TestPrinterEmitTextIsNoop(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo("text", &buf)
	if err := p.Emit(map[string]string{"k": "v"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("text mode Emit wrote %q", buf.String())
	}
}

func TestPrinterStructured(t *testing.T) {
	for format, want := range map[string]bool{"json": true, "yaml": true, "text": false, "": false} {
		if got := NewPrinterTo(format, &bytes.Buffer{}).Structured(); got != want {
			t.Errorf("Structured(%q) = %v, want %v", format, got, want)
		}
	}
}

func TestPrinterMessageLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo("text", &buf)

	p.Success("ok")
	p.Info("fyi")
	p.Warn("careful")
	p.Error("broken")

	out := buf.String()
	for _, want := range []string{"ok", "fyi", "careful", "broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("line count = %d, want 4", got)
	}
}
