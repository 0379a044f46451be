package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrStoreFailure.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeStore {
		t.Errorf("Expected type %s, got %s", TypeStore, appErr.Type)
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrEngineFailure.WithContext("exit_code", 7).WithContext("stderr", "boom")

	if appErr.Context["exit_code"] != 7 {
		t.Errorf("Expected exit_code context 7, got %v", appErr.Context["exit_code"])
	}

	if appErr.Detail() != "boom" {
		t.Errorf("Expected detail 'boom', got %q", appErr.Detail())
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name: "Simple error without underlying error",
			err:  ErrNoProjectSelected,
			contains: []string{
				"ANALYSIS",
				"No project selected",
			},
		},
		{
			name: "Error with underlying error",
			err:  ErrLaunchFailure.WithError(errors.New("exec: \"python3\": executable file not found")),
			contains: []string{
				"ENGINE",
				"Failed to start the analysis engine",
				"executable file not found",
			},
		},
		{
			name: "Error with context including stderr",
			err: ErrEngineFailure.WithError(errors.New("exit status 7")).
				WithContext("stderr", "Traceback (most recent call last)"),
			contains: []string{
				"ENGINE",
				"Analysis engine failed",
				"exit status 7",
				"Traceback",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			for _, substr := range tt.contains {
				if !contains(errMsg, substr) {
					t.Errorf("Expected error message to contain %q, got: %s", substr, errMsg)
				}
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := ErrStoreFailure.WithError(baseErr)

	unwrapped := appErr.Unwrap()
	if unwrapped != baseErr {
		t.Errorf("Expected unwrapped error to be %v, got %v", baseErr, unwrapped)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should work with AppError")
	}
}

func TestAppError_Is(t *testing.T) {
	t.Run("should match derived copies against their sentinel", func(t *testing.T) {
		derived := ErrProjectNotFound.WithContext("project_id", "abc").WithError(errors.New("missing"))
		wrapped := fmt.Errorf("switching: %w", derived)

		if !errors.Is(wrapped, ErrProjectNotFound) {
			t.Error("expected derived error to match ErrProjectNotFound")
		}
		if errors.Is(wrapped, ErrDuplicatePath) {
			t.Error("did not expect derived error to match ErrDuplicatePath")
		}
	})

	t.Run("should not match uncoded errors", func(t *testing.T) {
		plain := NewAppError(TypeInternal, "plain", nil)
		if errors.Is(plain, NewAppError(TypeInternal, "plain", nil)) {
			t.Error("uncoded errors must not match each other")
		}
	})
}

func TestAppError_ChainedContext(t *testing.T) {
	appErr := ErrEngineFailure.
		WithError(errors.New("exit status 1")).
		WithContext("project", "demo").
		WithContext("mode", "commit")

	if appErr.Context["project"] != "demo" {
		t.Errorf("Expected project context, got %v", appErr.Context["project"])
	}

	if appErr.Context["mode"] != "commit" {
		t.Errorf("Expected mode context, got %v", appErr.Context["mode"])
	}

	if ErrEngineFailure.Context != nil {
		t.Error("Original error should not have context")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && (s[:len(substr)] == substr || contains(s[1:], substr))))
}
