package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// EventTypeMessage is the only inbound relay event type the router acts on.
const EventTypeMessage = "message"

// InboundEvent is a JSON frame received on a relay connection.
type InboundEvent struct {
	Type     string     `json:"type"`
	UserID   FlexibleID `json:"userId"`
	Text     string     `json:"text"`
	SenderID string     `json:"senderId,omitempty"`
}

// FlexibleID accepts a conversation id sent either as a JSON string or a JSON number.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("conversation id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("conversation id must be an integer: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id FlexibleID) String() string { return string(id) }
