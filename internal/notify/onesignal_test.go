package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsNotification(t *testing.T) {
	var got notificationRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "notif-1"})
	}))
	defer srv.Close()

	client := NewOneSignalClient("app-1", "key-1", WithAPIURL(srv.URL))
	id, err := client.Send(context.Background(), Notification{
		PlayerIDs: []string{"player-1"},
		Heading:   "Yeni Randevu",
		Content:   "Boncuk için randevu",
		Data:      map[string]any{"type": "appointment_created"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "notif-1" {
		t.Fatalf("id = %q", id)
	}
	if auth != "Basic key-1" {
		t.Fatalf("auth = %q", auth)
	}
	if got.AppID != "app-1" {
		t.Fatalf("app_id = %q", got.AppID)
	}
	if len(got.IncludePlayerIDs) != 1 || got.IncludePlayerIDs[0] != "player-1" {
		t.Fatalf("include_player_ids = %v", got.IncludePlayerIDs)
	}
	if got.Headings["en"] != "Yeni Randevu" || got.Contents["en"] != "Boncuk için randevu" {
		t.Fatalf("headings/contents = %v / %v", got.Headings, got.Contents)
	}
}

func TestSendRejectsEmptyTargets(t *testing.T) {
	client := NewOneSignalClient("app-1", "key-1")
	if _, err := client.Send(context.Background(), Notification{Content: "x"}); err == nil {
		t.Fatal("expected error for empty player ids")
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["Invalid app_id"]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewOneSignalClient("bad", "key", WithAPIURL(srv.URL))
	if _, err := client.Send(context.Background(), Notification{PlayerIDs: []string{"p"}, Content: "x"}); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestSendErrorsInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "", "errors": []string{"All included players are not subscribed"}})
	}))
	defer srv.Close()

	client := NewOneSignalClient("app", "key", WithAPIURL(srv.URL))
	if _, err := client.Send(context.Background(), Notification{PlayerIDs: []string{"p"}, Content: "x"}); err == nil {
		t.Fatal("expected error for errors array in 200 response")
	}
}
