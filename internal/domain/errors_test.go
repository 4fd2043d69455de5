package domain

import (
	"errors"
	"testing"
)

func TestNetworkError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("retriable error", func(t *testing.T) {
		err := NewNetworkError("fetch 01.02.2024", baseErr)

		if !err.IsRetriable() {
			t.Error("Expected error to be retriable")
		}

		if err.Error() != "fetch 01.02.2024: connection refused" {
			t.Errorf("Error message = %q, want %q", err.Error(), "fetch 01.02.2024: connection refused")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("fatal error", func(t *testing.T) {
		err := NewFatalNetworkError("decode", baseErr)

		if err.IsRetriable() {
			t.Error("Expected error to not be retriable")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		retriable := NewNetworkError("dial", baseErr)
		fatal := NewFatalNetworkError("status 404", baseErr)
		plain := errors.New("plain error")

		if !IsRetriable(retriable) {
			t.Error("IsRetriable should return true for retriable error")
		}

		if IsRetriable(fatal) {
			t.Error("IsRetriable should return false for fatal error")
		}

		if IsRetriable(plain) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestDeliveryError(t *testing.T) {
	err := &DeliveryError{ConnID: "abc", Err: ErrConnectionClosed}

	if !errors.Is(err, ErrConnectionClosed) {
		t.Error("Expected DeliveryError to wrap ErrConnectionClosed")
	}

	expected := "deliver to abc: connection closed"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestValidationError(t *testing.T) {
	var err error = &ValidationError{Message: "First parameter mast be integer"}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As should match ValidationError")
	}
	if ve.Error() != "First parameter mast be integer" {
		t.Errorf("unexpected message %q", ve.Error())
	}
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "server.port", Err: baseErr}

	if err.IsRetriable() {
		t.Error("ConfigError should never be retriable")
	}

	expected := "config error [server.port]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}
