package gateway

import (
	"bytes"
	"encoding/json"
)

// participantList accepts the shapes the gateway is known to emit for a
// participant listing: a bare array, {"data": [...]}, or
// {"participants": [...]}. Decoding happens here, at the client boundary, so
// the reconciliation passes only ever see one normalized shape.
type participantList []Participant

func (p *participantList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Participant
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*p = list
		return nil
	}

	var wrapped struct {
		Data         []Participant `json:"data"`
		Participants []Participant `json:"participants"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	if wrapped.Data != nil {
		*p = wrapped.Data
		return nil
	}
	*p = wrapped.Participants
	return nil
}

// messageList tolerates the same wrapper variance for message-log pages.
type messageList []MessageRecord

func (m *messageList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []MessageRecord
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*m = list
		return nil
	}

	var wrapped struct {
		Data     []MessageRecord `json:"data"`
		Messages struct {
			Records []MessageRecord `json:"records"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	if wrapped.Data != nil {
		*m = wrapped.Data
		return nil
	}
	*m = wrapped.Messages.Records
	return nil
}
