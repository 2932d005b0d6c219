package domain

import "encoding/json"

// Transcript is the ordered, append-only log of messages.
// Insertion order is display order. The zero value is an empty transcript.
type Transcript struct {
	messages []Message
}

// Append adds a message at the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg.clone())
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of all messages.
func (t *Transcript) Messages() []Message {
	return t.Since(0)
}

// Since returns a copy of the messages appended at or after position n.
func (t *Transcript) Since(n int) []Message {
	if n < 0 {
		n = 0
	}
	if n >= len(t.messages) {
		return []Message{}
	}
	out := make([]Message, 0, len(t.messages)-n)
	for _, m := range t.messages[n:] {
		out = append(out, m.clone())
	}
	return out
}

// Last returns the most recent message.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1].clone(), true
}

// LatestAction returns the affordance of the most recent message carrying one.
func (t *Transcript) LatestAction() (Action, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if a := t.messages[i].Action; a != nil {
			return *a, true
		}
	}
	return Action{}, false
}

// Clone returns a deep copy of the transcript.
func (t *Transcript) Clone() Transcript {
	return Transcript{messages: t.Since(0)}
}

// MarshalJSON encodes the transcript as a plain array of messages.
func (t Transcript) MarshalJSON() ([]byte, error) {
	if t.messages == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.messages)
}

// UnmarshalJSON decodes a plain array of messages.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return err
	}
	t.messages = msgs
	return nil
}
