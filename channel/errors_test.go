package channel

import (
	"errors"
	"testing"
)

func TestAsErrorMapsShutdownAndTimeout(t *testing.T) {
	var sht *ShutdownError
	if err := AsError(StatusSht); !errors.As(err, &sht) {
		t.Fatalf("AsError(StatusSht) = %v, want *ShutdownError", err)
	}
	var to *TimeoutError
	if err := AsError(StatusTimeout); !errors.As(err, &to) {
		t.Fatalf("AsError(StatusTimeout) = %v, want *TimeoutError", err)
	}
	if err := AsError(StatusGet); err != nil {
		t.Fatalf("AsError(StatusGet) = %v, want nil", err)
	}
}
