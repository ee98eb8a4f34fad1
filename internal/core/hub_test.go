package core

import "testing"

func TestExactInterestPair(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	h.RegisterClient(a)
	h.RegisterClient(b)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "music"}
	mustEvent(t, a.Events, EventWaiting)

	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "Music"}

	af := mustEvent(t, a.Events, EventPartnerFound)
	bf := mustEvent(t, b.Events, EventPartnerFound)
	if af.PartnerID != "b" || bf.PartnerID != "a" {
		t.Fatalf("unexpected partner ids: a=%s b=%s", af.PartnerID, bf.PartnerID)
	}
}

func TestBestMatchWinsOverFIFO(t *testing.T) {
	h := newTestHub(t)

	x := NewClient("x")
	y := NewClient("y")
	c := NewClient("c")
	h.RegisterClient(x)
	h.RegisterClient(y)
	h.RegisterClient(c)

	x.Commands <- &Command{Kind: CommandFindPartner, Interests: "music"}
	mustEvent(t, x.Events, EventWaiting)
	y.Commands <- &Command{Kind: CommandFindPartner, Interests: "movies,games"}
	mustEvent(t, y.Events, EventWaiting)

	c.Commands <- &Command{Kind: CommandFindPartner, Interests: "music,movies,games"}

	cf := mustEvent(t, c.Events, EventPartnerFound)
	if cf.PartnerID != "y" {
		t.Fatalf("expected C to pair with Y, got %s", cf.PartnerID)
	}
	mustEvent(t, y.Events, EventPartnerFound)
	noEvent(t, x.Events)
}

func TestSkipRematchesInitiatorOnly(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	h.RegisterClient(a)
	h.RegisterClient(b)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventWaiting)
	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventPartnerFound)
	mustEvent(t, b.Events, EventPartnerFound)

	a.Commands <- &Command{Kind: CommandSkip, Interests: "games", HasInterests: true}

	mustEvent(t, b.Events, EventPartnerDisconnected)
	mustEvent(t, a.Events, EventWaiting)
	noEvent(t, b.Events)
}

func TestDisconnectMidPairNotifiesPartner(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	h.RegisterClient(a)
	h.RegisterClient(b)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventWaiting)
	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventPartnerFound)
	mustEvent(t, b.Events, EventPartnerFound)

	h.UnregisterClient(a)

	mustEvent(t, b.Events, EventPartnerDisconnected)
}

func TestSendMessageEchoLaw(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	h.RegisterClient(a)
	h.RegisterClient(b)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventWaiting)
	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventPartnerFound)
	mustEvent(t, b.Events, EventPartnerFound)

	a.Commands <- &Command{Kind: CommandSendMessage, Text: "hi"}

	self := mustEvent(t, a.Events, EventReceiveMessage)
	partner := mustEvent(t, b.Events, EventReceiveMessage)
	if self.Sender != SenderMe || self.Text != "hi" {
		t.Fatalf("unexpected self echo: %+v", self)
	}
	if partner.Sender != SenderPartner || partner.Text != "hi" {
		t.Fatalf("unexpected partner delivery: %+v", partner)
	}
}

func TestSendMessageWhileUnpairedIsDropped(t *testing.T) {
	h := newTestHub(t)
	a := NewClient("a")
	h.RegisterClient(a)

	a.Commands <- &Command{Kind: CommandSendMessage, Text: "hi"}
	noEvent(t, a.Events)
}

func TestAnswerToWrongRecipientIsDropped(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	other := NewClient("z")
	h.RegisterClient(a)
	h.RegisterClient(b)
	h.RegisterClient(other)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventWaiting)
	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventPartnerFound)
	mustEvent(t, b.Events, EventPartnerFound)

	a.Commands <- &Command{Kind: CommandAnswer, To: "z", Payload: []byte(`{"sdp":"x"}`)}
	noEvent(t, other.Events)
	noEvent(t, b.Events)
}

func TestLeaveChatWhilePairedNotifiesPartner(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	h.RegisterClient(a)
	h.RegisterClient(b)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "music"}
	mustEvent(t, a.Events, EventWaiting)
	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "music"}
	mustEvent(t, a.Events, EventPartnerFound)
	mustEvent(t, b.Events, EventPartnerFound)

	a.Commands <- &Command{Kind: CommandLeaveChat}
	mustEvent(t, b.Events, EventPartnerDisconnected)

	// find_partner with no payload normalizes to random; it does not fall
	// back to the "music" interest declared before leaving.
	a.Commands <- &Command{Kind: CommandFindPartner, Interests: nil}
	ev := mustEvent(t, a.Events, EventWaiting)
	if ev.Waiting != "Waiting for a random partner..." {
		t.Fatalf("unexpected waiting description: %q", ev.Waiting)
	}
}

func TestOfferAnswerICERelay(t *testing.T) {
	h := newTestHub(t)

	a := NewClient("a")
	b := NewClient("b")
	h.RegisterClient(a)
	h.RegisterClient(b)

	a.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventWaiting)
	b.Commands <- &Command{Kind: CommandFindPartner, Interests: "random"}
	mustEvent(t, a.Events, EventPartnerFound)
	mustEvent(t, b.Events, EventPartnerFound)

	a.Commands <- &Command{Kind: CommandOffer, Payload: []byte(`{"sdp":"offer"}`)}
	offerEv := mustEvent(t, b.Events, EventOffer)
	if offerEv.From != "a" || string(offerEv.Payload) != `{"sdp":"offer"}` {
		t.Fatalf("unexpected offer event: %+v", offerEv)
	}

	b.Commands <- &Command{Kind: CommandAnswer, To: offerEv.From, Payload: []byte(`{"sdp":"answer"}`)}
	answerEv := mustEvent(t, a.Events, EventAnswer)
	if answerEv.From != "b" {
		t.Fatalf("unexpected answer event: %+v", answerEv)
	}

	a.Commands <- &Command{Kind: CommandICECandidate, Payload: []byte(`{"candidate":"c1"}`)}
	iceEv := mustEvent(t, b.Events, EventICECandidate)
	if iceEv.From != "a" {
		t.Fatalf("unexpected ice event: %+v", iceEv)
	}

	a.Commands <- &Command{Kind: CommandStopVideo}
	mustEvent(t, b.Events, EventStopVideo)
}
