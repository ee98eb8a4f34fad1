package core

import "encoding/json"

// CommandKind identifies which inbound wire event a Command carries.
type CommandKind int

const (
	// CommandFindPartner enters matchmaking with the given interests.
	CommandFindPartner CommandKind = iota
	// CommandSendMessage relays text to the current partner, echoing to self.
	CommandSendMessage
	// CommandOffer forwards an opaque SDP offer to the partner.
	CommandOffer
	// CommandAnswer forwards an opaque SDP answer to a named recipient.
	CommandAnswer
	// CommandICECandidate forwards an opaque ICE candidate to the partner.
	CommandICECandidate
	// CommandStopVideo tells the partner to stop sending video.
	CommandStopVideo
	// CommandSkip tears down the current pairing and re-matches.
	CommandSkip
	// CommandLeaveChat tears down any pairing and returns to Unregistered.
	CommandLeaveChat
)

// Command represents one inbound action attributed to its originating
// client. Fields not relevant to Kind are left zero.
type Command struct {
	Kind CommandKind

	// Interests carries the raw find_partner/skip payload after JSON
	// decoding into an any (string, []any of strings, or nil for
	// "omitted"). Normalize interprets it. HasInterests distinguishes an
	// omitted skip payload (reuse remembered interests) from an explicit
	// one (which may itself normalize to [random]).
	Interests    any
	HasInterests bool

	// Text is the send_message payload.
	Text string

	// To is the explicit recipient of an answer; must equal the sender's
	// current partner or the event is dropped.
	To string

	// Payload is the opaque signaling body for offer/answer/ice-candidate.
	// The core never parses it.
	Payload json.RawMessage
}
