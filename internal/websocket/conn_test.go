package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// dialTestConn upgrades a connection on an in-memory server and returns
// the wrapped server side plus the raw client side for draining.
func dialTestConn(t *testing.T) (*Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverSide := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverSide <- c
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	conn := NewConn(<-serverSide)
	t.Cleanup(func() { conn.Close() })
	return conn, client
}

func TestWriteTypedConcurrentWriters(t *testing.T) {
	conn, client := dialTestConn(t)

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if err := conn.WriteTyped(PresenceEvent{
					Event:  EventJoined,
					UserID: "user",
					Name:   "user",
				}); err != nil {
					t.Errorf("concurrent write failed: %v", err)
					return
				}
			}
		}()
	}

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for received < writers*perWriter {
			var event PresenceEvent
			if err := client.ReadJSON(&event); err != nil {
				t.Errorf("client read failed: %v", err)
				return
			}
			if event.Event != EventJoined {
				t.Errorf("unexpected event %q", event.Event)
				return
			}
			received++
		}
	}()

	wg.Wait()
	<-done
	if received != writers*perWriter {
		t.Fatalf("received %d messages, want %d", received, writers*perWriter)
	}
}

func TestWriteErrorPayload(t *testing.T) {
	conn, client := dialTestConn(t)

	if err := conn.WriteError("meeting not found"); err != nil {
		t.Fatalf("WriteError failed: %v", err)
	}

	var resp ErrorResponse
	if err := client.ReadJSON(&resp); err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if resp.Event != EventError {
		t.Errorf("event = %q, want %q", resp.Event, EventError)
	}
	if resp.Error != "meeting not found" {
		t.Errorf("error = %q, want %q", resp.Error, "meeting not found")
	}
}
