package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.BeginRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.FinishRun(ctx, 12, 3))

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, 12, run.Processed)
	assert.Equal(t, 3, run.Skipped)
	assert.False(t, run.StartedAt.IsZero())
	assert.False(t, run.FinishedAt.IsZero())
}

func TestStore_RecordResultAndSkip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.BeginRun(ctx)
	require.NoError(t, err)

	rec := &compound.DescriptorRecord{Name: "ethanol"}
	verdicts := []compound.RuleVerdict{
		{RuleName: "Lipinski"},
		{RuleName: "Ghose", Violations: []string{"MW 46.07 below 160", "Atoms 9 below 20"}},
	}
	in := compound.CompoundInput{Notation: "CCO", Name: "ethanol"}
	require.NoError(t, s.RecordResult(ctx, in, rec, verdicts))

	bad := compound.CompoundInput{Notation: "???", Name: "mystery"}
	require.NoError(t, s.RecordSkip(ctx, bad, "unparsable notation"))

	stored, err := s.Verdicts(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Lipinski", stored[0].Rule)
	assert.Equal(t, 0, stored[0].Violations)
	assert.Equal(t, "Ghose", stored[1].Rule)
	assert.Equal(t, 2, stored[1].Violations)
	assert.Equal(t, "MW 46.07 below 160; Atoms 9 below 20", stored[1].Detail)
	assert.Equal(t, "CCO", stored[1].Notation)

	skips, err := s.Skips(ctx, id)
	require.NoError(t, err)
	require.Len(t, skips, 1)
	assert.Equal(t, "mystery", skips[0].Name)
	assert.Equal(t, "unparsable notation", skips[0].Reason)
}

func TestStore_RequiresRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.RecordSkip(ctx, compound.CompoundInput{Notation: "C"}, "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStoreFailure))

	err = s.FinishRun(ctx, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStoreFailure))
}

func TestStore_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	again, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}
