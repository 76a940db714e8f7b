package realtime

import (
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unibase/internal/logger"
	"unibase/internal/models"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestPublishReachesOwnerRoomOnly(t *testing.T) {
	hub := NewHub()

	alice := hub.Subscribe("alice")
	bob := hub.Subscribe("bob")
	defer hub.Unsubscribe(alice)
	defer hub.Unsubscribe(bob)

	hub.Publish(models.ChangeEvent{
		Collection: "todos",
		Action:     models.ActionCreate,
		ID:         1,
		Data:       map[string]any{"title": "milk"},
		OwnerID:    "alice",
	})

	select {
	case frame := <-alice.Send:
		var got struct {
			Collection string         `json:"collection"`
			Action     string         `json:"action"`
			ID         int64          `json:"id"`
			Data       map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(frame, &got))
		require.Equal(t, "todos", got.Collection)
		require.Equal(t, models.ActionCreate, got.Action)
		require.Equal(t, int64(1), got.ID)
		require.Equal(t, "milk", got.Data["title"])
	case <-time.After(time.Second):
		t.Fatal("alice never received the event")
	}

	select {
	case frame := <-bob.Send:
		t.Fatalf("bob received a foreign event: %s", frame)
	default:
	}
}

func TestEventsArriveInPublishOrder(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("alice")
	defer hub.Unsubscribe(sub)

	for i := int64(1); i <= 3; i++ {
		hub.Publish(models.ChangeEvent{
			Collection: "todos",
			Action:     models.ActionUpdate,
			ID:         i,
			OwnerID:    "alice",
		})
	}

	for i := int64(1); i <= 3; i++ {
		var got struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(<-sub.Send, &got))
		require.Equal(t, i, got.ID)
	}
}

func TestUnsubscribeClosesSendAndIsIdempotent(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("alice")
	require.Equal(t, 1, hub.RoomSize("alice"))

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	_, open := <-sub.Send
	require.False(t, open)
	require.Equal(t, 0, hub.RoomSize("alice"))
}

func TestSlowSubscriberIsDroppedNotBlocking(t *testing.T) {
	hub := NewHub()

	slow := hub.Subscribe("alice")

	done := make(chan struct{})
	go func() {
		defer close(done)
		// One more event than the buffer holds; nobody is draining.
		for i := 0; i <= sendBuffer; i++ {
			hub.Publish(models.ChangeEvent{
				Collection: "todos",
				Action:     models.ActionCreate,
				ID:         int64(i),
				OwnerID:    "alice",
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	require.Equal(t, 0, hub.RoomSize("alice"))

	// A fresh subscriber keeps receiving after the slow one is gone.
	fresh := hub.Subscribe("alice")
	defer hub.Unsubscribe(fresh)

	hub.Publish(models.ChangeEvent{
		Collection: "todos",
		Action:     models.ActionDelete,
		ID:         99,
		OwnerID:    "alice",
	})
	require.NotEmpty(t, <-fresh.Send)

	_ = slow
}

func TestPublishSurvivesDisconnectChurn(t *testing.T) {
	hub := NewHub()

	stop := make(chan struct{})
	var wg sync.WaitGroup

	// Subscribers come and go the way websocket clients do, while
	// publishers keep pushing into the same room. A Send channel closing
	// mid-publish must never take a publisher down.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					sub := hub.Subscribe("alice")
					hub.Unsubscribe(sub)
				}
			}
		}()
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.Publish(models.ChangeEvent{
						Collection: "todos",
						Action:     models.ActionCreate,
						ID:         1,
						OwnerID:    "alice",
					})
				}
			}
		}()
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)
	wg.Wait()
}
