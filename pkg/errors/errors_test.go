package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeInvalidStructure, "unparsable notation")
	assert.Equal(t, "[CMP_001] unparsable notation", err.Error())

	withDetail := err.WithDetail("notation=C1CC")
	assert.Equal(t, "[CMP_001] unparsable notation: notation=C1CC", withDetail.Error())
	// WithDetail must not mutate the receiver.
	assert.Empty(t, err.Detail)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeReportSink, "ignored"))

	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeReportSink, "writing report block")
	require.NotNil(t, err)
	assert.Equal(t, CodeReportSink, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := InvalidStructure("bad ring closure")
	outer := Wrap(inner, CodeUnknown, "parsing compound")
	assert.Equal(t, CodeInvalidStructure, outer.Code)
}

func TestIsInvalidStructure(t *testing.T) {
	err := InvalidStructure("unclosed bracket")
	assert.True(t, IsInvalidStructure(err))

	wrapped := fmt.Errorf("record 3: %w", err)
	assert.True(t, IsInvalidStructure(wrapped))

	assert.False(t, IsInvalidStructure(Configuration("missing threshold")))
	assert.False(t, IsInvalidStructure(errors.New("plain")))
	assert.False(t, IsInvalidStructure(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, CodeConfiguration, GetCode(Configuration("bad rule")))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "unclosed bracket", Reason(InvalidStructure("unclosed bracket")))
	assert.Equal(t, "plain", Reason(errors.New("plain")))
}

func TestStackCaptured(t *testing.T) {
	err := New(CodeInternal, "boom")
	assert.Contains(t, err.Stack, "errors_test.go")
}
