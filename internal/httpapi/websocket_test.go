package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastsDatasetUpdate(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	go hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	// Let the register message reach the hub loop before broadcasting.
	time.Sleep(50 * time.Millisecond)
	hub.DatasetUpdated("AAPL")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	var msg UpdateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshalling message: %v", err)
	}
	if msg.Type != "dataset" || msg.Symbol != "AAPL" {
		t.Errorf("message = %+v, want dataset/AAPL", msg)
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	go hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	conn.Close()

	// Broadcasting after disconnect must not block or panic.
	time.Sleep(50 * time.Millisecond)
	hub.DatasetUpdated("MSFT")
	hub.DatasetUpdated("MSFT")
}
