package secrets

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestGetAPIKeyPrefersEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("TEST_LLM_KEY", " env-key ")
	if err := SetAPIKey("gemini", "ring-key"); err != nil {
		t.Fatal(err)
	}

	got, err := GetAPIKey("TEST_LLM_KEY", "gemini")
	if err != nil {
		t.Fatalf("GetAPIKey: %v", err)
	}
	if got != "env-key" {
		t.Errorf("got %q, want env-key", got)
	}
}

func TestGetAPIKeyFallsBackToKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv("TEST_LLM_KEY", "")
	if err := SetAPIKey("gemini", "ring-key"); err != nil {
		t.Fatal(err)
	}

	got, err := GetAPIKey("TEST_LLM_KEY", "gemini")
	if err != nil {
		t.Fatalf("GetAPIKey: %v", err)
	}
	if got != "ring-key" {
		t.Errorf("got %q, want ring-key", got)
	}

	if err := DeleteAPIKey("gemini"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetAPIKey("TEST_LLM_KEY", "gemini"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestSetAPIKeyValidates(t *testing.T) {
	keyring.MockInit()
	if err := SetAPIKey("", "k"); err == nil {
		t.Error("expected error for empty account")
	}
	if err := SetAPIKey("gemini", "  "); err == nil {
		t.Error("expected error for empty key")
	}
	if err := DeleteAPIKey(""); err == nil {
		t.Error("expected error for empty account")
	}
}
