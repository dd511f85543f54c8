package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CommunicationLevel is the highest channel type currently recorded for a friendship.
type CommunicationLevel string

const (
	// CommunicationLevelChat permits text chat only.
	CommunicationLevelChat CommunicationLevel = "chat"
	// CommunicationLevelVoice permits text and voice calls.
	CommunicationLevelVoice CommunicationLevel = "voice"
	// CommunicationLevelVideo permits text, voice and video calls.
	CommunicationLevelVideo CommunicationLevel = "video"
)

// VoiceInteractionThreshold is the interaction count at which the recorded
// level advances from chat to voice.
const VoiceInteractionThreshold = 2

// Friendship represents an established, possibly blocked, relationship between
// two users. The pair is unordered; PairKey canonicalizes it so the store can
// enforce uniqueness regardless of which user is stored first.
type Friendship struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	User1ID            uint               `gorm:"not null;index" json:"user1_id"`
	User2ID            uint               `gorm:"not null;index" json:"user2_id"`
	PairKey            string             `gorm:"uniqueIndex;not null" json:"-"`
	CommunicationLevel CommunicationLevel `gorm:"type:varchar(10);default:'chat'" json:"communication_level"`
	InteractionCount   int                `gorm:"default:0" json:"interaction_count"`
	Blocked            bool               `gorm:"default:false" json:"blocked"`
	EstablishedAt      time.Time          `json:"established_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	User1 User `gorm:"foreignKey:User1ID" json:"user1,omitempty"`
	User2 User `gorm:"foreignKey:User2ID" json:"user2,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate derives the canonical pair key and stamps EstablishedAt.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.PairKey = PairKey(f.User1ID, f.User2ID)
	if f.EstablishedAt.IsZero() {
		f.EstablishedAt = time.Now().UTC()
	}
	return nil
}

// PairKey returns the canonical key for an unordered user pair (lower id first).
func PairKey(userID1, userID2 uint) string {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("%d:%d", userID1, userID2)
}

// Involves reports whether the friendship includes the given user.
func (f *Friendship) Involves(userID uint) bool {
	return f.User1ID == userID || f.User2ID == userID
}

// OtherUserID returns the counterpart of the given participant.
func (f *Friendship) OtherUserID(userID uint) uint {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}

// LevelForInteractions returns the display level earned by interaction count
// alone: voice once the threshold is reached, chat below it.
func LevelForInteractions(count int) CommunicationLevel {
	if count >= VoiceInteractionThreshold {
		return CommunicationLevelVoice
	}
	return CommunicationLevelChat
}
