package websocket

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func newTestClient(h *Hub, userID uuid.UUID) *Client {
	return &Client{ID: uuid.New(), UserID: userID, Send: make(chan []byte, 4), Hub: h}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesOnlyRecipients(t *testing.T) {
	h := newTestHub(t)
	alice, bob := uuid.New(), uuid.New()

	aliceTab1 := newTestClient(h, alice)
	aliceTab2 := newTestClient(h, alice)
	bobClient := newTestClient(h, bob)
	for _, c := range []*Client{aliceTab1, aliceTab2, bobClient} {
		if err := h.Register(c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	waitFor(t, func() bool { return h.IsOnline(alice) && h.IsOnline(bob) })

	if err := h.Publish([]uuid.UUID{alice}, TypeNewPost, map[string]string{"body": "hi"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, c := range []*Client{aliceTab1, aliceTab2} {
		select {
		case raw := <-c.Send:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg.Type != TypeNewPost || string(msg.Data) != `{"body":"hi"}` {
				t.Fatalf("unexpected message %s", raw)
			}
		default:
			t.Fatalf("client %s got no message", c.ID)
		}
	}
	select {
	case raw := <-bobClient.Send:
		t.Fatalf("bob must not receive %s", raw)
	default:
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	h := newTestHub(t)
	userID := uuid.New()
	c := newTestClient(h, userID)
	_ = h.Register(c)
	waitFor(t, func() bool { return h.IsOnline(userID) })

	h.Unregister(c)
	waitFor(t, func() bool { return !h.IsOnline(userID) })

	if _, ok := <-c.Send; ok {
		t.Fatalf("send channel must be closed")
	}
	if err := c.SendMessage(TypePong, nil); !errors.Is(err, ErrHubStopped) {
		t.Fatalf("expected ErrHubStopped, got %v", err)
	}
}

func TestSendMessageQueueFull(t *testing.T) {
	h := newTestHub(t)
	c := &Client{ID: uuid.New(), UserID: uuid.New(), Send: make(chan []byte, 1), Hub: h}
	_ = h.Register(c)
	waitFor(t, func() bool { return h.IsOnline(c.UserID) })

	if err := c.SendMessage(TypePong, nil); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := c.SendMessage(TypePong, nil); !errors.Is(err, ErrClientQueueFull) {
		t.Fatalf("expected ErrClientQueueFull, got %v", err)
	}
}

func TestRegisterAfterStop(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go h.Run()
	h.Stop()
	if err := h.Register(newTestClient(h, uuid.New())); !errors.Is(err, ErrHubStopped) {
		t.Fatalf("expected ErrHubStopped, got %v", err)
	}
}
