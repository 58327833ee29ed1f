package browser

import (
	"errors"
	"strings"
	"testing"
)

func TestOpenExternalCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
	}{
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
	}

	const url = "https://github.com/acme/app/releases/tag/v1.3.0"
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var gotName string
			var gotArgs []string
			o := &Opener{
				goos: tt.goos,
				run: func(name string, args ...string) error {
					gotName = name
					gotArgs = args
					return nil
				},
			}
			if err := o.OpenExternal(url); err != nil {
				t.Fatalf("OpenExternal() error = %v", err)
			}
			if gotName != tt.wantName {
				t.Errorf("command = %q, want %q", gotName, tt.wantName)
			}
			if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != url {
				t.Errorf("args = %v, want URL as final arg", gotArgs)
			}
		})
	}
}

func TestOpenExternalRejectsNonWebURLs(t *testing.T) {
	called := false
	o := &Opener{
		goos: "linux",
		run: func(name string, args ...string) error {
			called = true
			return nil
		},
	}
	for _, url := range []string{"file:///etc/passwd", "javascript:alert(1)", "ftp://example.com", ""} {
		if err := o.OpenExternal(url); err == nil {
			t.Errorf("OpenExternal(%q) = nil, want error", url)
		}
	}
	if called {
		t.Error("runner invoked for a rejected URL")
	}
}

func TestOpenExternalLaunchFailure(t *testing.T) {
	o := &Opener{
		goos: "linux",
		run: func(name string, args ...string) error {
			return errors.New("exec: not found")
		},
	}
	err := o.OpenExternal("https://example.com")
	if err == nil {
		t.Fatal("OpenExternal() = nil, want error")
	}
	if !strings.Contains(err.Error(), "xdg-open") {
		t.Errorf("error %q does not name the launcher", err)
	}
}
