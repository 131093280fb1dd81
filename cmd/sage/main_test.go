// No t.Parallel() — several tests set process-global env vars.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--version"}, &out, strings.NewReader(""))

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "sage version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--help"}, &out, strings.NewReader(""))

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected help output, got %q", out.String())
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--unknown-flag"}, &out, strings.NewReader(""))

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRun_Ask_MissingGroqKeyFails(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("SAGE_CONFIG", "")

	var out bytes.Buffer
	code := run([]string{"what", "is", "entropy"}, &out, strings.NewReader(""))

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d (output %q)", code, out.String())
	}
	if !strings.Contains(out.String(), "GROQ_API_KEY") {
		t.Fatalf("expected missing-key error, got %q", out.String())
	}
}

func TestRun_Token_RequiresSecret(t *testing.T) {
	t.Setenv("SAGE_JWT_SECRET", "")

	var out bytes.Buffer
	code := run([]string{"token"}, &out, strings.NewReader(""))

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRun_Token_PrintsJWT(t *testing.T) {
	t.Setenv("SAGE_JWT_SECRET", "test-secret")
	t.Setenv("SAGE_JWT_EXPIRY", "")

	var out bytes.Buffer
	code := run([]string{"token", "alice"}, &out, strings.NewReader(""))

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (output %q)", code, out.String())
	}
	token := strings.TrimSpace(out.String())
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %q", token)
	}
}
