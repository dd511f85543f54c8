package models

import "time"

// CallType distinguishes voice from video call sessions.
type CallType string

const (
	CallTypeVoice CallType = "voice"
	CallTypeVideo CallType = "video"
)

// CallStatus tracks call-session bookkeeping. Media transport itself is
// handled by an external collaborator; this engine only records the session
// and the locking decision.
type CallStatus string

const (
	CallStatusInitiated CallStatus = "initiated"
	CallStatusEnded     CallStatus = "ended"
)

// Call is the bookkeeping record for an initiated call session.
type Call struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	SessionID string     `gorm:"uniqueIndex;not null" json:"session_id"`
	CallerID  uint       `gorm:"not null;index" json:"caller_id"`
	CalleeID  uint       `gorm:"not null;index" json:"callee_id"`
	Type      CallType   `gorm:"type:varchar(10);not null" json:"type"`
	Status    CallStatus `gorm:"type:varchar(20);default:'initiated'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Call) TableName() string {
	return "calls"
}
