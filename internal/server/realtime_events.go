package server

import (
	"context"
	"encoding/json"
	"log"

	"kindred/internal/models"
)

// Event type constants prevent typos in event names.
const (
	EventNotificationNew       = "notification:new"
	EventFriendshipEstablished = "friendship:established"
	EventCallIncoming          = "call:incoming"
)

// publishUserEvent sends an event to a user's notification channel.
// Fire-and-forget: failures are logged, never surfaced to the caller.
func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	message, ok := marshalEvent(eventType, payload)
	if !ok {
		return
	}
	if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
		log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
	}
}

// publishCallEvent sends a call event to the callee's call channel.
func (s *Server) publishCallEvent(userID uint, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	message, ok := marshalEvent(EventCallIncoming, payload)
	if !ok {
		return
	}
	if err := s.notifier.PublishCall(context.Background(), userID, message); err != nil {
		log.Printf("failed to publish %s event to user %d: %v", EventCallIncoming, userID, err)
	}
}

// requestChatChannel asks the external chat collaborator to provision a direct
// channel for a newly established friendship. Best-effort.
func (s *Server) requestChatChannel(userID1, userID2 uint) {
	if s.notifier == nil {
		return
	}
	payload, ok := marshalEvent("chat_channel_requested", map[string]interface{}{
		"user1_id": userID1,
		"user2_id": userID2,
	})
	if !ok {
		return
	}
	if err := s.notifier.RequestChatChannel(context.Background(), userID1, userID2, payload); err != nil {
		log.Printf("failed to request chat channel for %d/%d: %v", userID1, userID2, err)
	}
}

func marshalEvent(eventType string, payload map[string]interface{}) (string, bool) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return "", false
	}
	return string(eventJSON), true
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":   user.ID,
		"name": user.Name,
	}
}
