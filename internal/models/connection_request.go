package models

import "time"

// ConnectionRequestStatus represents the lifecycle state of a connection request.
type ConnectionRequestStatus string

const (
	// ConnectionRequestStatusPending indicates a request awaiting a response.
	ConnectionRequestStatusPending ConnectionRequestStatus = "pending"
	// ConnectionRequestStatusAccepted indicates the receiver accepted the request.
	ConnectionRequestStatusAccepted ConnectionRequestStatus = "accepted"
	// ConnectionRequestStatusDeclined indicates the receiver declined the request.
	ConnectionRequestStatusDeclined ConnectionRequestStatus = "declined"
)

// ConnectionRequest represents a directed connection request between two users.
//
// There is no "cancelled" state: cancellation deletes the row. A declined (or
// accepted-but-unfriended) request is reopened to pending on resend, so at most
// one row exists per ordered (sender, receiver) pair.
type ConnectionRequest struct {
	ID          uint                    `gorm:"primaryKey" json:"id"`
	SenderID    uint                    `gorm:"not null;uniqueIndex:idx_connection_pair" json:"sender_id"`
	ReceiverID  uint                    `gorm:"not null;uniqueIndex:idx_connection_pair" json:"receiver_id"`
	Status      ConnectionRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	RespondedAt *time.Time              `json:"responded_at,omitempty"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM
func (ConnectionRequest) TableName() string {
	return "connection_requests"
}
