package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat entry. Messages are never mutated once appended.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"type"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Attachments []string  `json:"attachments,omitempty"`
	Action      *Action   `json:"actions,omitempty"`
}

// clone returns a copy that shares no slices or pointers with m.
func (m Message) clone() Message {
	out := m
	if m.Attachments != nil {
		out.Attachments = append([]string(nil), m.Attachments...)
	}
	if m.Action != nil {
		a := *m.Action
		out.Action = &a
	}
	return out
}
