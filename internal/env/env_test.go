package env

import (
	"testing"
	"time"
)

func TestGetString(t *testing.T) {
	t.Setenv("SESSIONCTL_TEST_STR", "hello")

	if got := GetString("SESSIONCTL_TEST_STR", "def"); got != "hello" {
		t.Errorf("GetString = %q, want %q", got, "hello")
	}
	if got := GetString("SESSIONCTL_TEST_MISSING", "def"); got != "def" {
		t.Errorf("GetString default = %q, want %q", got, "def")
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("SESSIONCTL_TEST_INT", "42")
	t.Setenv("SESSIONCTL_TEST_BAD_INT", "forty-two")

	if got := GetInt("SESSIONCTL_TEST_INT", 7); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
	if got := GetInt("SESSIONCTL_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt with unparsable value = %d, want default 7", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("SESSIONCTL_TEST_BOOL", "true")

	if !GetBool("SESSIONCTL_TEST_BOOL", false) {
		t.Error("GetBool = false, want true")
	}
	if GetBool("SESSIONCTL_TEST_MISSING", false) {
		t.Error("GetBool default = true, want false")
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("SESSIONCTL_TEST_DUR", "15s")

	if got := GetDuration("SESSIONCTL_TEST_DUR", time.Minute); got != 15*time.Second {
		t.Errorf("GetDuration = %v, want 15s", got)
	}
	if got := GetDuration("SESSIONCTL_TEST_MISSING", time.Minute); got != time.Minute {
		t.Errorf("GetDuration default = %v, want 1m", got)
	}
}
