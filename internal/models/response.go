package models

import (
	"encoding/json"
	"fmt"
)

// Envelope is the routing metadata echoed from a request into its response
type Envelope struct {
	RequestID    string `json:"request_id"`
	SourceSystem int    `json:"source_system"`
	SessionID    string `json:"session_id"`
}

// ResponseMSG is the response envelope. It always carries exactly one card and
// its card type is derived from that card. Values are immutable once built.
type ResponseMSG struct {
	envelope    Envelope
	nextAgent   string
	cardSubType string
	card        Card
}

// ResponseParams is the loose shape of a response: a card type plus any of the
// three payloads. NewResponseMSG reduces it to a valid ResponseMSG.
type ResponseParams struct {
	Envelope
	NextAgent   string
	CardType    CardType
	CardSubType string
	TextCard    *TextCard
	OptionsCard *OptionsCard
	JSONCard    *JSONCard
}

// responseWire is the serialized form. Field order here is the key order on the wire.
type responseWire struct {
	Envelope
	NextAgent   string       `json:"next_agent"`
	CardType    CardType     `json:"card_type"`
	CardSubType string       `json:"card_sub_type"`
	TextCard    *TextCard    `json:"text_card"`
	OptionsCard *OptionsCard `json:"options_card"`
	JSONCard    *JSONCard    `json:"json_card"`
}

// NewResponseMSG builds a response from loose parameters. Only the payload that
// matches CardType is kept; a default is used when it is missing. Text and
// options responses always get their fixed sub type.
func NewResponseMSG(params ResponseParams) (*ResponseMSG, error) {
	if !params.CardType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCardType, params.CardType)
	}

	var card Card
	switch params.CardType {
	case CardTypeText:
		if params.TextCard != nil {
			card = params.TextCard
		}
	case CardTypeOptions:
		if params.OptionsCard != nil {
			card = params.OptionsCard
		}
	case CardTypeJSON:
		if params.JSONCard != nil {
			card = params.JSONCard
		}
	}
	if card == nil {
		card = defaultCard(params.CardType)
	}

	return NewCardResponse(params.Envelope, params.NextAgent, card, params.CardSubType)
}

// NewCardResponse builds a response around card. subType is only honoured for
// json cards.
func NewCardResponse(envelope Envelope, nextAgent string, card Card, subType string) (*ResponseMSG, error) {
	card = cloneCard(card)
	if card == nil {
		return nil, fmt.Errorf("%w: card is nil", ErrInvalidCardType)
	}

	switch c := card.(type) {
	case *TextCard:
		subType = CardSubTypeText
	case *OptionsCard:
		subType = CardSubTypeOptions
		if c.Options == nil {
			c.Options = []string{}
		}
	case *JSONCard:
		if subType == "" {
			subType = CardSubTypeJSON
		}
	}

	return &ResponseMSG{
		envelope:    envelope,
		nextAgent:   nextAgent,
		cardSubType: subType,
		card:        card,
	}, nil
}

// Envelope returns the echoed routing metadata
func (r *ResponseMSG) Envelope() Envelope { return r.envelope }

// RequestID returns the echoed request ID
func (r *ResponseMSG) RequestID() string { return r.envelope.RequestID }

// SourceSystem returns the echoed source system code
func (r *ResponseMSG) SourceSystem() int { return r.envelope.SourceSystem }

// SessionID returns the echoed session ID
func (r *ResponseMSG) SessionID() string { return r.envelope.SessionID }

// NextAgent returns the routing hint for the front end
func (r *ResponseMSG) NextAgent() string { return r.nextAgent }

// CardType returns the type of the populated card
func (r *ResponseMSG) CardType() CardType {
	if r.card == nil {
		return ""
	}
	return r.card.CardType()
}

// CardSubType returns the card sub type
func (r *ResponseMSG) CardSubType() string { return r.cardSubType }

// Card returns a copy of the populated card
func (r *ResponseMSG) Card() Card { return cloneCard(r.card) }

// TextCard returns a copy of the text card, or nil when another card is populated
func (r *ResponseMSG) TextCard() *TextCard {
	if c, ok := r.card.(*TextCard); ok {
		return cloneCard(c).(*TextCard)
	}
	return nil
}

// OptionsCard returns a copy of the options card, or nil when another card is populated
func (r *ResponseMSG) OptionsCard() *OptionsCard {
	if c, ok := r.card.(*OptionsCard); ok {
		return cloneCard(c).(*OptionsCard)
	}
	return nil
}

// JSONCard returns a copy of the json card, or nil when another card is populated
func (r *ResponseMSG) JSONCard() *JSONCard {
	if c, ok := r.card.(*JSONCard); ok {
		return cloneCard(c).(*JSONCard)
	}
	return nil
}

// MarshalJSON writes every key in a fixed order. The two unpopulated card keys
// are written as null.
func (r ResponseMSG) MarshalJSON() ([]byte, error) {
	if r.card == nil {
		return nil, fmt.Errorf("%w: response has no card", ErrInvalidCardType)
	}

	wire := responseWire{
		Envelope:    r.envelope,
		NextAgent:   r.nextAgent,
		CardType:    r.CardType(),
		CardSubType: r.cardSubType,
	}

	switch c := r.card.(type) {
	case *TextCard:
		wire.TextCard = c
	case *OptionsCard:
		wire.OptionsCard = c
	case *JSONCard:
		wire.JSONCard = c
	}

	return json.Marshal(wire)
}

// UnmarshalJSON decodes a response and rebuilds it through NewResponseMSG, so
// payloads that do not match card_type are dropped.
func (r *ResponseMSG) UnmarshalJSON(data []byte) error {
	var wire responseWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	built, err := NewResponseMSG(ResponseParams{
		Envelope:    wire.Envelope,
		NextAgent:   wire.NextAgent,
		CardType:    wire.CardType,
		CardSubType: wire.CardSubType,
		TextCard:    wire.TextCard,
		OptionsCard: wire.OptionsCard,
		JSONCard:    wire.JSONCard,
	})
	if err != nil {
		return err
	}

	*r = *built
	return nil
}
