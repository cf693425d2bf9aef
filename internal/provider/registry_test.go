package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/dramahub/internal/model"
)

type namedSource string

func (n namedSource) Name() string { return string(n) }

func (n namedSource) Episodes(ctx context.Context, id string) Outcome[model.EpisodeBundle] {
	return Miss[model.EpisodeBundle](nil)
}

func TestRegistryChain(t *testing.T) {
	reg, err := NewRegistry(namedSource("melolo"), namedSource("NetShort"), namedSource("dramabox"))
	require.NoError(t, err)

	chain, err := reg.Chain([]string{"netshort", " Melolo "})
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "NetShort", chain[0].Name())
	assert.Equal(t, "melolo", chain[1].Name())

	_, err = reg.Chain([]string{"flickreels"})
	assert.Error(t, err)
	_, err = reg.Chain([]string{"melolo", "MELOLO"})
	assert.Error(t, err)
	_, err = reg.Chain(nil)
	assert.Error(t, err)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(namedSource("melolo"), namedSource("Melolo"))
	assert.Error(t, err)
	_, err = NewRegistry(namedSource(" "))
	assert.Error(t, err)
	_, err = NewRegistry(nil)
	assert.Error(t, err)
}

func TestOutcomeThen(t *testing.T) {
	double := func(n int) Outcome[int] { return Success(n * 2) }

	assert.Equal(t, 4, then(Success(2), double).Value)
	assert.Equal(t, KindMiss, then(Miss[int](nil), double).Kind)

	u := then(Unreachable[int](assert.AnError), double)
	assert.Equal(t, KindUnreachable, u.Kind)
	assert.ErrorIs(t, u.Err, assert.AnError)
	assert.True(t, u.Failed())
	assert.Equal(t, "unreachable", u.Kind.String())
}

func TestOutcomeFailedOnlyWhenUnreachable(t *testing.T) {
	assert.False(t, Success(1).Failed())
	assert.False(t, Miss[int](ErrShapeMismatch).Failed())
	assert.True(t, Unreachable[int](assert.AnError).Failed())
}
