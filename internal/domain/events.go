package domain

// Message types
const (
	MessageTypeEventRecorded  = "creditline.event_recorded"
	MessageTypeAccountCreated = "creditline.account_created"
)

// Message is a notification published to external systems.
type Message struct {
	Type    string
	Key     string
	Payload any
}

// EventRecordedPayload is published for every appended ledger event.
type EventRecordedPayload struct {
	EventID   string `json:"event_id"`
	AccountID string `json:"account_id"`
	Seq       int    `json:"seq"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
}

// AccountCreatedPayload is published when a credit line is opened.
type AccountCreatedPayload struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// NewEventRecordedMessage builds the message announcing a stored event.
func NewEventRecordedMessage(e *StoredEvent) Message {
	return Message{
		Type: MessageTypeEventRecorded,
		Key:  e.AccountID,
		Payload: EventRecordedPayload{
			EventID:   e.ID,
			AccountID: e.AccountID,
			Seq:       e.Seq,
			Kind:      string(e.Kind),
			Amount:    e.Amount.String(),
			Date:      FormatDate(e.Date),
		},
	}
}

// NewAccountCreatedMessage builds the message announcing a new account.
func NewAccountCreatedMessage(a *Account) Message {
	return Message{
		Type: MessageTypeAccountCreated,
		Key:  a.ID,
		Payload: AccountCreatedPayload{
			AccountID: a.ID,
			Name:      a.Name,
		},
	}
}
