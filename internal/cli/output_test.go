package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KUROROSUKE/english-learning/internal/store"
	"github.com/KUROROSUKE/english-learning/internal/study"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"exit error", NewExitError(ExitCommandError, "bad"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "bad")), ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitFailure, "bad").Error())

	inner := errors.New("inner")
	err := WrapExitError(ExitFailure, "outer", inner)
	assert.Equal(t, "outer: inner", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestErrorCode(t *testing.T) {
	writeErr := &store.StorageError{Code: store.ErrCodeWriteFailed, Op: "put card", Err: errors.New("disk full")}
	unavailable := &store.StorageError{Code: store.ErrCodeUnavailable, Op: "open", Err: errors.New("locked")}

	assert.Equal(t, "STORAGE_WRITE_FAILED", errorCode(fmt.Errorf("record: %w", writeErr)))
	assert.Equal(t, "E_INVALID_SUBMISSION", errorCode(fmt.Errorf("%w: no items", study.ErrInvalidSubmission)))
	assert.Equal(t, "E_COMMAND", errorCode(errors.New("other")))

	assert.Equal(t, ExitFailure, exitCodeFor(writeErr))
	assert.Equal(t, ExitCommandError, exitCodeFor(unavailable))
	assert.Equal(t, ExitCommandError, exitCodeFor(study.ErrInvalidSubmission))
}

func TestOutputError_TextModeWritesNothing(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	err := outputError(cmd, &RootOptions{Format: "text"}, "failed", errors.New("boom"), "")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, out.String())
}

func TestOutputJSON_Envelope(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, outputJSON(cmd, map[string]int{"deleted": 3}, "t-1"))
	assert.JSONEq(t, `{"status":"ok","data":{"deleted":3},"trace_id":"t-1"}`, out.String())
}
