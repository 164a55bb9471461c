package tagging

import (
	"errors"
	"fmt"
	"testing"
)

// TestSentinelErrors verifies that all sentinel errors are defined correctly.
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "ErrNotFound",
			err:  ErrNotFound,
			want: "tagging: not found",
		},
		{
			name: "ErrParseFailure",
			err:  ErrParseFailure,
			want: "tagging: parse failure",
		},
		{
			name: "ErrStorageFailed",
			err:  ErrStorageFailed,
			want: "tagging: storage operation failed",
		},
		{
			name: "ErrInvalidFormat",
			err:  ErrInvalidFormat,
			want: "tagging: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("sentinel error %s is nil", tt.name)
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("error message = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestKind verifies sentinel-to-kind mapping, including through wrapping.
func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  ErrNotFound,
			want: KindNotFound,
		},
		{
			name: "wrapped not found",
			err:  fmt.Errorf("property prop-1: %w", ErrNotFound),
			want: KindNotFound,
		},
		{
			name: "parse failure",
			err:  fmt.Errorf("%w: bad CSV row", ErrParseFailure),
			want: KindParse,
		},
		{
			name: "storage failure",
			err:  fmt.Errorf("%w: connection refused", ErrStorageFailed),
			want: KindStorage,
		},
		{
			name: "invalid format",
			err:  ErrInvalidFormat,
			want: KindValidation,
		},
		{
			name: "unknown error",
			err:  errors.New("something else"),
			want: "",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
