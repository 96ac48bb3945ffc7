package identity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DomainSuffix is the stable network-identifier domain carried by canonical
// member ids. Bare phone numbers are suffixed with it during normalization.
const DomainSuffix = "@s.whatsapp.net"

// SelfSenderID is the reserved canonical id recorded as the sender of
// self-authored messages. Their raw records never carry a resolvable id for
// the host account, so every pass uses this single sentinel instead.
const SelfSenderID = "DATA_SYNC_HOST"

// FlexScalar holds a field the gateway serializes inconsistently: sometimes a
// string, sometimes a number, sometimes an empty object. Structured values
// survive decoding as present but unusable.
type FlexScalar struct {
	Present bool
	Scalar  bool
	Value   string
}

// UnmarshalJSON accepts strings and numbers as scalars. Objects, arrays and
// other shapes are recorded as present so callers can tell "field absent"
// from "field useless".
func (f *FlexScalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = FlexScalar{}
		return nil
	}

	f.Present = true
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		f.Scalar = true
		f.Value = s
	case '{', '[':
		// structured phone fields carry nothing we can key on
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			// booleans and other oddities: present, not a scalar
			return nil
		}
		f.Scalar = true
		f.Value = n.String()
	}
	return nil
}

// String makes FlexScalar readable in logs and test failures.
func (f FlexScalar) String() string {
	if !f.Present {
		return "<absent>"
	}
	if !f.Scalar {
		return "<non-scalar>"
	}
	return f.Value
}

// RawIdentity is the identifier-bearing subset of a raw participant or
// message-key record as the gateway reports it.
type RawIdentity struct {
	// Phone is the explicit phone-number field, when the gateway sends one.
	Phone FlexScalar
	// JID is the gateway-native id: either a stable network identifier or an
	// anonymized linking id, possibly with a :device suffix.
	JID string
}

// Canonical resolves a raw record to the one canonical member id used as the
// unique key across all passes. It reports false when the record carries
// nothing usable; callers must skip such records rather than fail the batch.
func Canonical(rec RawIdentity) (string, bool) {
	var id string
	switch {
	case rec.Phone.Scalar && rec.Phone.Value != "":
		id = rec.Phone.Value
	case strings.Contains(rec.JID, DomainSuffix):
		id = rec.JID
	default:
		// non-scalar phone shapes carry no usable value, so anonymized
		// linking ids without a phone stay unresolvable
		return "", false
	}

	// drop the :device segment, then pin the domain suffix so every encoding
	// of the same identity collapses to one key
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[:i]
	}
	if !strings.Contains(id, DomainSuffix) {
		id += DomainSuffix
	}
	return id, true
}

// PhoneFromCanonical derives the bare phone number from a canonical id.
func PhoneFromCanonical(id string) string {
	return strings.TrimSuffix(id, DomainSuffix)
}
