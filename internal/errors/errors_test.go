package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(New("boom"), ExitSystem),
			want: "boom",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	inner := New("inner")
	err := NewExitError(inner, ExitSystem)

	if !stderrors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
	if err.Unwrap() != inner {
		t.Error("Unwrap() should return the underlying error")
	}
}

func TestExitError_As(t *testing.T) {
	err := Wrap(NewUserError(ErrInvalidConfig, "fix it"), "loading")

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("expected errors.As to find the ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion != "fix it" {
		t.Errorf("Suggestion = %q, want %q", exitErr.Suggestion, "fix it")
	}
	if !stderrors.Is(err, ErrInvalidConfig) {
		t.Error("sentinel should remain reachable through the chain")
	}
}

func TestNewConstructors(t *testing.T) {
	if e := NewUserError(nil, "s"); e.Code != ExitUser {
		t.Errorf("NewUserError code = %d", e.Code)
	}
	if e := NewSystemError(nil, "s"); e.Code != ExitSystem {
		t.Errorf("NewSystemError code = %d", e.Code)
	}
	if e := NewConfigError(nil); e.Code != ExitUser || e.Suggestion == "" {
		t.Errorf("NewConfigError = %+v", e)
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrInvalidConfig,
		ErrInvalidSelector,
		ErrUnresolvedTarget,
		ErrSnapshotFailed,
	}

	for _, s := range sentinels {
		wrapped := Wrapf(s, "context %d", 42)
		if !stderrors.Is(wrapped, s) {
			t.Errorf("wrapped sentinel %v not found by errors.Is", s)
		}
	}
}
