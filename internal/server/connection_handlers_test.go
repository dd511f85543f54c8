package server

import (
	"fmt"
	"net/http"
	"testing"

	"kindred/internal/models"
)

func TestSendConnectionRequestFlow(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := createUser(t, db, "Anil", "anil@example.com")
	receiver := createUser(t, db, "Beena", "beena@example.com")
	app := newTestApp(s, sender.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/connections",
		fmt.Sprintf(`{"receiver_id":%d}`, receiver.ID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "pending" {
		t.Fatalf("expected pending status, got %v", body["status"])
	}

	// Sending again while pending conflicts.
	resp, body = doJSON(t, app, http.MethodPost, "/api/connections",
		fmt.Sprintf(`{"receiver_id":%d}`, receiver.ID))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != models.CodeRequestExists {
		t.Fatalf("expected REQUEST_EXISTS, got %s", code)
	}
}

func TestSendConnectionRequestValidation(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := createUser(t, db, "Anil", "anil@example.com")
	app := newTestApp(s, sender.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/connections",
		fmt.Sprintf(`{"receiver_id":%d}`, sender.ID))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-request, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != models.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %s", code)
	}

	resp, body = doJSON(t, app, http.MethodPost, "/api/connections", `{"receiver_id":9999}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown receiver, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != models.CodeUserNotFound {
		t.Fatalf("expected USER_NOT_FOUND, got %s", code)
	}
}

func TestAcceptConnectionRequestCreatesFriendship(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := createUser(t, db, "Anil", "anil@example.com")
	receiver := createUser(t, db, "Beena", "beena@example.com")

	request := &models.ConnectionRequest{SenderID: sender.ID, ReceiverID: receiver.ID}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	app := newTestApp(s, receiver.ID)
	resp, body := doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/connections/%d/accept", request.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}

	friendship, ok := body["friendship"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected a friendship in the response, got %v", body)
	}
	if friendship["communication_level"] != "chat" {
		t.Fatalf("expected chat level, got %v", friendship["communication_level"])
	}

	var stored models.Friendship
	if err := db.Where("pair_key = ?", models.PairKey(sender.ID, receiver.ID)).First(&stored).Error; err != nil {
		t.Fatalf("friendship missing: %v", err)
	}
	if stored.InteractionCount != 0 {
		t.Fatalf("a new friendship starts with zero interactions, got %d", stored.InteractionCount)
	}

	var updated models.ConnectionRequest
	if err := db.First(&updated, request.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if updated.Status != models.ConnectionRequestStatusAccepted {
		t.Fatalf("expected accepted status, got %s", updated.Status)
	}
}

func TestAcceptConnectionRequestOnlyReceiver(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := createUser(t, db, "Anil", "anil@example.com")
	receiver := createUser(t, db, "Beena", "beena@example.com")

	request := &models.ConnectionRequest{SenderID: sender.ID, ReceiverID: receiver.ID}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	// The sender cannot accept their own request.
	app := newTestApp(s, sender.ID)
	resp, body := doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/connections/%d/accept", request.ID), "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != models.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %s", code)
	}
}

func TestAcceptMirroredRequestReturnsExistingFriendship(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	u1 := createUser(t, db, "Anil", "anil@example.com")
	u2 := createUser(t, db, "Beena", "beena@example.com")

	forward := &models.ConnectionRequest{SenderID: u1.ID, ReceiverID: u2.ID}
	mirrored := &models.ConnectionRequest{SenderID: u2.ID, ReceiverID: u1.ID}
	if err := db.Create(forward).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := db.Create(mirrored).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, _ := doJSON(t, newTestApp(s, u2.ID), http.MethodPut,
		fmt.Sprintf("/api/connections/%d/accept", forward.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, newTestApp(s, u1.ID), http.MethodPut,
		fmt.Sprintf("/api/connections/%d/accept", mirrored.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accepting the mirrored request must succeed, got %d: %v", resp.StatusCode, body)
	}

	var count int64
	if err := db.Model(&models.Friendship{}).Count(&count).Error; err != nil {
		t.Fatalf("count friendships: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single friendship for the pair, got %d", count)
	}
}

func TestDeclineAndResendReopens(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := createUser(t, db, "Anil", "anil@example.com")
	receiver := createUser(t, db, "Beena", "beena@example.com")

	request := &models.ConnectionRequest{SenderID: sender.ID, ReceiverID: receiver.ID}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, _ := doJSON(t, newTestApp(s, receiver.ID), http.MethodPut,
		fmt.Sprintf("/api/connections/%d/decline", request.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 decline, got %d", resp.StatusCode)
	}

	// Resending reuses the declined row instead of inserting a second one.
	resp, body := doJSON(t, newTestApp(s, sender.ID), http.MethodPost, "/api/connections",
		fmt.Sprintf(`{"receiver_id":%d}`, receiver.ID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 resend, got %d: %v", resp.StatusCode, body)
	}

	var count int64
	if err := db.Model(&models.ConnectionRequest{}).Count(&count).Error; err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the declined request reopened, got %d rows", count)
	}
	if body["status"] != "pending" {
		t.Fatalf("expected pending status after reopen, got %v", body["status"])
	}
}

func TestCancelConnectionRequest(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := createUser(t, db, "Anil", "anil@example.com")
	receiver := createUser(t, db, "Beena", "beena@example.com")

	request := &models.ConnectionRequest{SenderID: sender.ID, ReceiverID: receiver.ID}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	// Only the sender may cancel.
	resp, body := doJSON(t, newTestApp(s, receiver.ID), http.MethodDelete,
		fmt.Sprintf("/api/connections/%d", request.ID), "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, newTestApp(s, sender.ID), http.MethodDelete,
		fmt.Sprintf("/api/connections/%d", request.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.ConnectionRequest{}).Count(&count).Error; err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if count != 0 {
		t.Fatalf("cancellation deletes the row, got %d rows", count)
	}
}

func TestGetPendingConnections(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	u1 := createUser(t, db, "Anil", "anil@example.com")
	u2 := createUser(t, db, "Beena", "beena@example.com")
	u3 := createUser(t, db, "Chacko", "chacko@example.com")

	if err := db.Create(&models.ConnectionRequest{SenderID: u2.ID, ReceiverID: u1.ID}).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := db.Create(&models.ConnectionRequest{SenderID: u1.ID, ReceiverID: u3.ID}).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, body := doJSON(t, newTestApp(s, u1.ID), http.MethodGet, "/api/connections/pending", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	received, ok := body["received"].([]interface{})
	if !ok || len(received) != 1 {
		t.Fatalf("expected 1 received request, got %v", body["received"])
	}
	sent, ok := body["sent"].([]interface{})
	if !ok || len(sent) != 1 {
		t.Fatalf("expected 1 sent request, got %v", body["sent"])
	}
}

func TestInvalidRouteParam(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	user := createUser(t, db, "Anil", "anil@example.com")

	resp, body := doJSON(t, newTestApp(s, user.ID), http.MethodPut, "/api/connections/abc/accept", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != models.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %s", code)
	}
}
