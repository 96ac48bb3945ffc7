package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyName(t *testing.T) {
	canonical := "27821234567@s.whatsapp.net"

	require.Equal(t, TrustNone, ClassifyName("", canonical))
	require.Equal(t, TrustSelf, ClassifyName(canonical, canonical))
	require.Equal(t, TrustNumeric, ClassifyName("Unknown", canonical))
	require.Equal(t, TrustNumeric, ClassifyName("+27 (82) 123-4567", canonical))
	require.Equal(t, TrustProvisional, ClassifyName("Jane", canonical))
}

func TestUsableName(t *testing.T) {
	require.False(t, UsableName(""))
	require.False(t, UsableName("J"))
	require.True(t, UsableName("Jo"))
	require.True(t, UsableName("木村"))
}

func TestShouldOverwrite(t *testing.T) {
	// confirmed names are final
	for _, candidate := range []Trust{TrustNone, TrustNumeric, TrustProvisional, TrustConfirmed} {
		require.False(t, ShouldOverwrite(TrustConfirmed, candidate))
	}

	// an empty slot accepts anything
	for _, candidate := range []Trust{TrustNone, TrustSelf, TrustNumeric, TrustProvisional, TrustConfirmed} {
		require.True(t, ShouldOverwrite(TrustNone, candidate))
	}

	// equal trust refreshes, lower trust does not downgrade
	require.True(t, ShouldOverwrite(TrustProvisional, TrustProvisional))
	require.True(t, ShouldOverwrite(TrustNumeric, TrustProvisional))
	require.False(t, ShouldOverwrite(TrustProvisional, TrustNumeric))
	require.False(t, ShouldOverwrite(TrustProvisional, TrustSelf))
	require.True(t, ShouldOverwrite(TrustProvisional, TrustConfirmed))
}
