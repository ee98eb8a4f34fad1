package http

import (
	"encoding/json"

	"github.com/Aryan-982/omegle-server/internal/core"
	"github.com/Aryan-982/omegle-server/internal/proto"
)

// inboundToCommand translates a wire Inbound into a core.Command. A
// malformed payload (bad JSON, missing required field) or an unrecognized
// type is silently dropped: the returned command is nil and no error is
// ever written back to the client. The error return is for server-side
// logging only.
func inboundToCommand(inbound proto.Inbound) (*core.Command, error) {
	switch inbound.Type {
	case proto.InboundFindPartner:
		return &core.Command{
			Kind:      core.CommandFindPartner,
			Interests: decodeAny(inbound.Data),
		}, nil

	case proto.InboundSendMessage:
		var data struct {
			Text *string `json:"text"`
		}
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if data.Text == nil {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandSendMessage, Text: *data.Text}, nil

	case proto.InboundOffer:
		var data proto.OfferData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if len(data.Offer) == 0 {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandOffer, Payload: data.Offer}, nil

	case proto.InboundAnswer:
		var data proto.AnswerData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if data.To == "" || len(data.Answer) == 0 {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandAnswer, To: data.To, Payload: data.Answer}, nil

	case proto.InboundICECandidate:
		var data proto.ICECandidateData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if len(data.Candidate) == 0 {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandICECandidate, Payload: data.Candidate}, nil

	case proto.InboundStopVideo:
		return &core.Command{Kind: core.CommandStopVideo}, nil

	case proto.InboundSkip:
		hasInterests := len(inbound.Data) > 0
		return &core.Command{
			Kind:         core.CommandSkip,
			Interests:    decodeAny(inbound.Data),
			HasInterests: hasInterests,
		}, nil

	case proto.InboundLeaveChat:
		return &core.Command{Kind: core.CommandLeaveChat}, nil

	default:
		return nil, nil
	}
}

// decodeAny best-effort decodes a find_partner/skip payload (a JSON string
// or array, or absent) into the any that core.Normalize expects. Malformed
// JSON degenerates to nil, which Normalize treats as "random".
func decodeAny(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// outboundFromEvent translates a core.Event into its wire Outbound form.
func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventWaiting:
		return proto.Outbound{Type: proto.OutboundWaiting, Data: event.Waiting}

	case core.EventPartnerFound:
		return proto.Outbound{Type: proto.OutboundPartnerFound, Data: event.PartnerID}

	case core.EventReceiveMessage:
		return proto.Outbound{
			Type: proto.OutboundReceiveMessage,
			Data: proto.ReceiveMessageData{Sender: string(event.Sender), Text: event.Text},
		}

	case core.EventOffer:
		return proto.Outbound{
			Type: proto.OutboundOffer,
			Data: proto.OfferEventData{From: event.From, Offer: event.Payload},
		}

	case core.EventAnswer:
		return proto.Outbound{
			Type: proto.OutboundAnswer,
			Data: proto.AnswerEventData{From: event.From, Answer: event.Payload},
		}

	case core.EventICECandidate:
		return proto.Outbound{
			Type: proto.OutboundICECandidate,
			Data: proto.ICECandidateEventData{From: event.From, Candidate: event.Payload},
		}

	case core.EventStopVideo:
		return proto.Outbound{Type: proto.OutboundStopVideo}

	case core.EventPartnerDisconnected:
		return proto.Outbound{Type: proto.OutboundPartnerDisconnected}

	default:
		return proto.Outbound{Type: "unknown"}
	}
}
