package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snaperrors "github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/logging"
)

// fakeTarget counts availability probes and records snapshots.
type fakeTarget struct {
	available bool
	probes    int
	snapshots []string
}

func (f *fakeTarget) IsAvailable() bool {
	f.probes++
	return f.available
}

func (f *fakeTarget) Address(sel Selector) (string, error) {
	return joinAddress("/fake/latest", sel), nil
}

func (f *fakeTarget) Snapshot(name string) error {
	f.snapshots = append(f.snapshots, name)
	return nil
}

func TestFirstAvailable_StickySuccess(t *testing.T) {
	down := &fakeTarget{available: false}
	up := &fakeTarget{available: true}
	spare := &fakeTarget{available: true}

	fa := FirstAvailableOf(logging.ForTest(t), down, up, spare)

	require.True(t, fa.IsAvailable())
	require.True(t, fa.IsAvailable())

	// The second call must not re-probe anything.
	assert.Equal(t, 1, down.probes)
	assert.Equal(t, 1, up.probes)
	assert.Equal(t, 0, spare.probes, "later candidates are never probed once one resolves")
}

func TestFirstAvailable_NoStickyFailure(t *testing.T) {
	a := &fakeTarget{available: false}
	b := &fakeTarget{available: false}

	fa := FirstAvailableOf(logging.ForTest(t), a, b)

	require.False(t, fa.IsAvailable())
	require.False(t, fa.IsAvailable())

	// Both calls re-probe every candidate.
	assert.Equal(t, 2, a.probes)
	assert.Equal(t, 2, b.probes)
}

func TestFirstAvailable_DeclaredOrderWins(t *testing.T) {
	first := &fakeTarget{available: true}
	second := &fakeTarget{available: true}

	fa := FirstAvailableOf(logging.ForTest(t), first, second)
	require.True(t, fa.IsAvailable())

	require.NoError(t, fa.Snapshot("2024-01-01_00-00-00"))
	assert.Len(t, first.snapshots, 1)
	assert.Empty(t, second.snapshots)
}

func TestFirstAvailable_UnresolvedUse(t *testing.T) {
	fa := FirstAvailableOf(logging.ForTest(t), &fakeTarget{available: false})

	_, err := fa.Address(EntireTree())
	assert.ErrorIs(t, err, snaperrors.ErrUnresolvedTarget)

	err = fa.Snapshot("2024-01-01_00-00-00")
	assert.ErrorIs(t, err, snaperrors.ErrUnresolvedTarget)
}
