package types

import (
	"errors"
	"io/fs"
	"testing"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  NewAppError(ErrInvalidInput, "--output needs exactly one input", nil),
			want: "--output needs exactly one input",
		},
		{
			name: "with details and cause",
			err:  NewAppErrorWithDetails(ErrFileNotFound, "failed to read input", "paper.tex", fs.ErrNotExist),
			want: "failed to read input: paper.tex: file does not exist",
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

func TestAppError_Unwrap(t *testing.T) {
	var err error = NewAppError(ErrIO, "write failed", fs.ErrPermission)

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is should see the cause")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != ErrIO {
		t.Errorf("errors.As did not recover the AppError: %v", err)
	}
}
