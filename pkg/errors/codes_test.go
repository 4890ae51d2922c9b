package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(CodeInvalidStructure))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(CodeConfiguration))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(CodeInvalidStructure))
	assert.False(t, IsClientError(CodeReportSink))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CMP", ModuleForCode(CodeInvalidStructure))
	assert.Equal(t, "RUL", ModuleForCode(CodeConfiguration))
	assert.Equal(t, "COMMON", ModuleForCode(CodeInternal))
}
