package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	t.Setenv("TEST_INT", "7")
	t.Setenv("TEST_INT_BAD", "seven")
	t.Setenv("TEST_DURATION", "30m")
	t.Setenv("TEST_DURATION_BAD", "soon")

	if got := envString("TEST_STRING", "def"); got != "hello" {
		t.Errorf("envString = %q, want %q", got, "hello")
	}
	if got := envString("TEST_STRING_MISSING", "def"); got != "def" {
		t.Errorf("envString missing = %q, want default", got)
	}

	if got := envInt("TEST_INT", 3); got != 7 {
		t.Errorf("envInt = %d, want 7", got)
	}
	if got := envInt("TEST_INT_BAD", 3); got != 3 {
		t.Errorf("envInt invalid = %d, want default 3", got)
	}
	if got := envInt("TEST_INT_MISSING", 3); got != 3 {
		t.Errorf("envInt missing = %d, want default 3", got)
	}

	if got := envDuration("TEST_DURATION", time.Hour); got != 30*time.Minute {
		t.Errorf("envDuration = %v, want 30m", got)
	}
	if got := envDuration("TEST_DURATION_BAD", time.Hour); got != time.Hour {
		t.Errorf("envDuration invalid = %v, want default 1h", got)
	}
}

func TestEnvironmentChecks(t *testing.T) {
	dev := &Config{AppEnv: "development"}
	if !dev.IsDevelopment() || dev.IsProduction() {
		t.Error("development config misclassified")
	}

	prod := &Config{AppEnv: "production"}
	if !prod.IsProduction() || prod.IsDevelopment() {
		t.Error("production config misclassified")
	}
}
