package asyncore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeServiceA struct{ n int }
type fakeServiceB struct{ s string }

func TestRegistry_RegisterAndLookupByType(t *testing.T) {
	r := newRegistry()
	registerService(r, &fakeServiceA{n: 7})
	registerService(r, &fakeServiceB{s: "hi"})

	a, ok := lookupService[*fakeServiceA](r)
	require.True(t, ok)
	require.Equal(t, 7, a.n)

	b, ok := lookupService[*fakeServiceB](r)
	require.True(t, ok)
	require.Equal(t, "hi", b.s)
}

func TestRegistry_LookupMissingTypeReportsFalse(t *testing.T) {
	r := newRegistry()
	_, ok := lookupService[*fakeServiceA](r)
	require.False(t, ok)
}

func TestRegistry_DoubleRegistrationAsserts(t *testing.T) {
	r := newRegistry()
	registerService(r, &fakeServiceA{})
	require.Panics(t, func() { registerService(r, &fakeServiceA{}) })
}
