package statgenerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/locusmap/statgen-core/statgenerr"
)

func TestResult_Ok(t *testing.T) {
	r := statgenerr.Ok(42)
	assert.True(t, r.IsOk())
	v, ok := r.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Nil(t, r.Err())
}

func TestResult_Recoverable(t *testing.T) {
	sentinel := errors.New("variant not in panel")
	r := statgenerr.Recoverable[int](statgenerr.LdPanelMiss, sentinel)

	assert.False(t, r.IsOk())
	assert.True(t, r.IsRecoverable())
	_, ok := r.Value()
	assert.False(t, ok)
	assert.ErrorIs(t, r.Err(), sentinel)
	assert.Equal(t, statgenerr.LdPanelMiss, r.Err().Kind)
}

func TestResult_Failed(t *testing.T) {
	sentinel := errors.New("pinv exhausted retries")
	r := statgenerr.Failed[float64](statgenerr.Numerical, sentinel)

	assert.False(t, r.IsOk())
	assert.False(t, r.IsRecoverable())
	assert.Equal(t, statgenerr.Numerical, r.Err().Kind)
}

func TestKind_ExitCode(t *testing.T) {
	assert.Equal(t, 2, statgenerr.InputSchema.ExitCode())
	assert.Equal(t, 3, statgenerr.LdPanelMiss.ExitCode())
	assert.Equal(t, 4, statgenerr.Numerical.ExitCode())
	assert.Equal(t, 5, statgenerr.Cancelled.ExitCode())
}

func TestAsKindError(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := statgenerr.NewKindError(statgenerr.Fatal, sentinel)

	ke := statgenerr.AsKindError(wrapped)
	assert.NotNil(t, ke)
	assert.Equal(t, statgenerr.Fatal, ke.Kind)

	assert.Nil(t, statgenerr.AsKindError(sentinel))
}

func TestResult_MustPanicsOnError(t *testing.T) {
	r := statgenerr.Failed[int](statgenerr.Fatal, errors.New("invariant violated"))
	assert.Panics(t, func() { r.Must() })
}
