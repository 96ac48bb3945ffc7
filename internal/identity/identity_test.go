package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalPrefersScalarPhone(t *testing.T) {
	id, ok := Canonical(RawIdentity{
		Phone: FlexScalar{Present: true, Scalar: true, Value: "27821234567"},
		JID:   "98765432109876@lid",
	})
	require.True(t, ok)
	require.Equal(t, "27821234567@s.whatsapp.net", id)
}

func TestCanonicalStripsDeviceSuffix(t *testing.T) {
	id, ok := Canonical(RawIdentity{JID: "27821234567:12@s.whatsapp.net"})
	require.True(t, ok)
	require.Equal(t, "27821234567@s.whatsapp.net", id)
}

func TestCanonicalKeepsDomainForm(t *testing.T) {
	id, ok := Canonical(RawIdentity{JID: "27821234567@s.whatsapp.net"})
	require.True(t, ok)
	require.Equal(t, "27821234567@s.whatsapp.net", id)
}

func TestCanonicalIdempotent(t *testing.T) {
	first, ok := Canonical(RawIdentity{JID: "27821234567:3@s.whatsapp.net"})
	require.True(t, ok)
	second, ok := Canonical(RawIdentity{JID: first})
	require.True(t, ok)
	require.Equal(t, first, second)
}

func TestCanonicalUnresolvable(t *testing.T) {
	_, ok := Canonical(RawIdentity{JID: "98765432109876@lid"})
	require.False(t, ok)

	_, ok = Canonical(RawIdentity{})
	require.False(t, ok)

	// structured phone field carries nothing usable
	_, ok = Canonical(RawIdentity{Phone: FlexScalar{Present: true}})
	require.False(t, ok)

	// a structured phone next to a linking id still resolves nothing
	_, ok = Canonical(RawIdentity{
		Phone: FlexScalar{Present: true},
		JID:   "98765432109876@lid",
	})
	require.False(t, ok)
}

func TestFlexScalarShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want FlexScalar
	}{
		{"string", `"27821234567"`, FlexScalar{Present: true, Scalar: true, Value: "27821234567"}},
		{"number", `27821234567`, FlexScalar{Present: true, Scalar: true, Value: "27821234567"}},
		{"object", `{"country":"ZA"}`, FlexScalar{Present: true}},
		{"array", `[1,2]`, FlexScalar{Present: true}},
		{"null", `null`, FlexScalar{}},
		{"bool", `true`, FlexScalar{Present: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexScalar
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &f))
			require.Equal(t, tc.want, f)
		})
	}
}

func TestPhoneFromCanonical(t *testing.T) {
	require.Equal(t, "27821234567", PhoneFromCanonical("27821234567@s.whatsapp.net"))
}
