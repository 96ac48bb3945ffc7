package gateway

import (
	"strings"

	"sync-service/internal/identity"
)

// Group is one group row as reported by the gateway's group listing.
type Group struct {
	ID           string        `json:"id"`
	Subject      string        `json:"subject"`
	Description  *string       `json:"desc"`
	Size         *int          `json:"size"`
	Participants []Participant `json:"participants,omitempty"`
}

// GroupInfo is the deep group lookup used by the rescue pass.
type GroupInfo struct {
	ID           string        `json:"id"`
	Subject      string        `json:"subject"`
	Participants []Participant `json:"participants"`
}

// Participant is one raw participant record. Identifier and name fields are
// inconsistent across gateway versions, so every plausible spelling is kept
// and folded down by the helpers below.
type Participant struct {
	ID           string              `json:"id"`
	PhoneNumber  identity.FlexScalar `json:"phoneNumber"`
	Admin        string              `json:"admin"`
	IsAdmin      bool                `json:"isAdmin"`
	IsSuperAdmin bool                `json:"isSuperAdmin"`
	PushName     string              `json:"pushName"`
	Notify       string              `json:"notify"`
	Name         string              `json:"name"`
}

// Identity extracts the identifier-bearing fields for normalization.
func (p Participant) Identity() identity.RawIdentity {
	return identity.RawIdentity{Phone: p.PhoneNumber, JID: p.ID}
}

// IsAdminMarker folds the admin-flag spellings seen across gateway versions.
func (p Participant) IsAdminMarker() bool {
	return p.Admin == "admin" || p.Admin == "superadmin" || p.IsAdmin || p.IsSuperAdmin
}

// BestName returns the first populated display-name candidate.
func (p Participant) BestName() string {
	for _, n := range []string{p.PushName, p.Notify, p.Name} {
		if n != "" {
			return n
		}
	}
	return ""
}

// MessageKey identifies one message in the gateway's log.
type MessageKey struct {
	ID          string `json:"id"`
	FromMe      bool   `json:"fromMe"`
	RemoteJID   string `json:"remoteJid"`
	Participant string `json:"participant"`
}

// MessageRecord is one raw message from the gateway's persisted log or a
// live webhook event.
type MessageRecord struct {
	Key              MessageKey      `json:"key"`
	Message          ContentEnvelope `json:"message"`
	MessageTimestamp int64           `json:"messageTimestamp"`
	PushName         string          `json:"pushName"`
}

// ContentEnvelope is the nested message-content union. Exactly one branch is
// normally populated.
type ContentEnvelope struct {
	Conversation        string        `json:"conversation"`
	ExtendedTextMessage *extendedText `json:"extendedTextMessage"`
	ImageMessage        *mediaContent `json:"imageMessage"`
	VideoMessage        *mediaContent `json:"videoMessage"`
	DocumentMessage     *mediaContent `json:"documentMessage"`
	AudioMessage        *mediaContent `json:"audioMessage"`
	StickerMessage      *mediaContent `json:"stickerMessage"`
}

type extendedText struct {
	Text string `json:"text"`
}

type mediaContent struct {
	Caption string `json:"caption"`
}

// Body flattens the envelope into a display body and a media-type tag,
// classifying branches in priority order: plain text, extended text, captioned
// media, then placeholder-only media.
func (e ContentEnvelope) Body() (string, string) {
	switch {
	case e.Conversation != "":
		return e.Conversation, "text"
	case e.ExtendedTextMessage != nil && e.ExtendedTextMessage.Text != "":
		return e.ExtendedTextMessage.Text, "text"
	case e.ImageMessage != nil:
		return strings.TrimSpace("[Image] " + e.ImageMessage.Caption), "image"
	case e.VideoMessage != nil:
		return strings.TrimSpace("[Video] " + e.VideoMessage.Caption), "video"
	case e.DocumentMessage != nil:
		return "[Document]", "document"
	case e.AudioMessage != nil:
		return "[Audio]", "audio"
	case e.StickerMessage != nil:
		return "[Sticker]", "text"
	default:
		return "[Media/System]", "text"
	}
}
