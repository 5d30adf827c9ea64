package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"safestreet-service/models"
)

func testReport() *models.HazardReport {
	return &models.HazardReport{
		Timestamp:     "2024-04-01 10:00:00",
		DayOfWeek:     "Monday",
		LocationName:  "Main St",
		HazardType:    "pothole",
		Accessibility: 2,
		UserType:      "wheelchair",
		Temporary:     true,
	}
}

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register <- client

	hub.BroadcastReport(testReport())

	select {
	case data := <-client.send:
		var msg models.BroadcastMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal broadcast: %v", err)
		}
		if msg.Type != "report" {
			t.Errorf("Expected message type %q, got %q", "report", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for broadcast")
	}

	clients, broadcasts := hub.Stats()
	if clients != 1 {
		t.Errorf("Expected 1 connected client, got %d", clients)
	}
	if broadcasts != 1 {
		t.Errorf("Expected 1 broadcast, got %d", broadcasts)
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel to be closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for unregister")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Unbuffered send channel and no reader: the broadcast cannot be
	// delivered and the client must be evicted instead of blocking the hub.
	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.Register <- slow

	hub.BroadcastReport(testReport())

	deadline := time.Now().Add(time.Second)
	for {
		clients, _ := hub.Stats()
		if clients == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for slow client eviction")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastNilReport(t *testing.T) {
	hub := NewHub()

	hub.BroadcastReport(nil)

	_, broadcasts := hub.Stats()
	if broadcasts != 0 {
		t.Errorf("Expected nil report to be ignored, got %d broadcasts", broadcasts)
	}
}
