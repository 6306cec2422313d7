package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	s := NewServer(&Config{Port: 0, Logger: log.New(io.Discard, "", 0)})
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+s.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return event
}

func TestClientReceivesHello(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s)

	event := readEvent(t, conn)
	if event.Type != EventHello {
		t.Errorf("first event = %q, want hello", event.Type)
	}
}

func TestPublishReachesAllClients(t *testing.T) {
	s := startServer(t)

	first := dial(t, s)
	second := dial(t, s)
	readEvent(t, first)
	readEvent(t, second)

	s.Publish(EventPushComplete, TransferData{Succeeded: 3, Failed: 1})

	for _, conn := range []*websocket.Conn{first, second} {
		event := readEvent(t, conn)
		if event.Type != EventPushComplete {
			t.Fatalf("event type = %q, want push_complete", event.Type)
		}

		var data TransferData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			t.Fatalf("unmarshal data failed: %v", err)
		}
		if data.Succeeded != 3 || data.Failed != 1 {
			t.Errorf("data = %+v", data)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s)
	readEvent(t, conn)

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Clients != 1 {
		t.Errorf("clients = %d, want 1", body.Clients)
	}
}
