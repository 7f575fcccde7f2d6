package inmemory

import (
	"testing"

	"parcelec-core/ids"
	"parcelec-core/playerconn"
)

func TestConnectionsRecordsPerPlayerAndBroadcastMessages(t *testing.T) {
	c := New()
	game := ids.NewGameId()
	p1, p2 := ids.NewPlayerId(), ids.NewPlayerId()

	c.SendToPlayer(game, p1, playerconn.PlayerMessage{StackState: &playerconn.StackState{Open: true}})
	c.SendToAllPlayers(game, playerconn.PlayerMessage{GameState: &playerconn.GameState{Phase: "open"}})

	if len(c.MessagesFor(p1)) != 1 {
		t.Fatalf("expected 1 message for p1, got %d", len(c.MessagesFor(p1)))
	}
	if len(c.MessagesFor(p2)) != 0 {
		t.Fatalf("expected no messages for p2, got %d", len(c.MessagesFor(p2)))
	}
	if len(c.Broadcasts()) != 1 {
		t.Fatalf("expected 1 broadcast message, got %d", len(c.Broadcasts()))
	}
}
