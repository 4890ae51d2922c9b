package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molsift/molsift/pkg/errors"
)

const sampleReport = `NAME: alpha
MW: 46.07
TPSA: 20.23

Results for alpha:
Lipinski Rules:
	No violations
Ghose Rules:
	MW 46.07 below 160

SKIPPED: beta (unparsable notation)

NAME: gamma
MW: 612.30
TPSA: 160.00

Results for gamma:
Lipinski Rules:
	MW 612.3 exceeds 500
Ghose Rules:
	MW 612.3 exceeds 480

`

func TestConvert(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Convert(strings.NewReader(sampleReport), &out))

	want := "MW,NAME,TPSA,Lipinski,Ghose\n" +
		"46.07,alpha,20.23,pass,fail\n" +
		"612.30,gamma,160.00,fail,fail\n"
	assert.Equal(t, want, out.String())
}

func TestConvert_SkippedCompoundsProduceNoRows(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Convert(strings.NewReader(sampleReport), &out))
	assert.NotContains(t, out.String(), "beta")
}

func TestConvert_UnionOfColumns(t *testing.T) {
	report := "NAME: a\nMW: 1.00\n\nNAME: b\nTPSA: 2.00\n"
	var out strings.Builder
	require.NoError(t, Convert(strings.NewReader(report), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "MW,NAME,TPSA", lines[0])
	assert.Equal(t, "1.00,a,", lines[1])
	assert.Equal(t, ",b,2.00", lines[2])
}

func TestConvert_CRLFInput(t *testing.T) {
	report := strings.ReplaceAll("NAME: a\nMW: 1.00\n\nResults for a:\nLipinski Rules:\n\tNo violations\n", "\n", "\r\n")
	var out strings.Builder
	require.NoError(t, Convert(strings.NewReader(report), &out))
	assert.Contains(t, out.String(), "a,pass")
}

func TestConvert_OrphanResultsBlock(t *testing.T) {
	report := "Results for ghost:\nLipinski Rules:\n\tNo violations\n"
	err := Convert(strings.NewReader(report), &strings.Builder{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReportParse), "got %v", err)
}

func TestConvert_EmptyReport(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Convert(strings.NewReader(""), &out))
	assert.Equal(t, "\n", out.String(), "header only")
}
