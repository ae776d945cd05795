package domain

import "time"

// MessageStatus is the triage state of a contact message.
type MessageStatus string

const (
	MessageNew        MessageStatus = "new"
	MessageInProgress MessageStatus = "in_progress"
	MessageResolved   MessageStatus = "resolved"
)

// MessageStatuses lists the statuses in triage order.
var MessageStatuses = []MessageStatus{MessageNew, MessageInProgress, MessageResolved}

// Next returns the following status, wrapping after resolved.
func (s MessageStatus) Next() MessageStatus {
	for i, v := range MessageStatuses {
		if v == s {
			return MessageStatuses[(i+1)%len(MessageStatuses)]
		}
	}
	return MessageNew
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID          int64         `json:"id"`
	SenderName  string        `json:"sender_name"`
	SenderEmail string        `json:"sender_email"`
	Subject     string        `json:"subject,omitempty"`
	Message     string        `json:"message"`
	Status      MessageStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ContactSubmission is the public POST /contact/messages payload.
type ContactSubmission struct {
	SenderName  string  `json:"sender_name"`
	SenderEmail string  `json:"sender_email"`
	Subject     *string `json:"subject"`
	Message     string  `json:"message"`
}

// MessageStatusUpdate is the admin PUT /contact/messages/:id payload.
type MessageStatusUpdate struct {
	Status MessageStatus `json:"status"`
}
