package market

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/playerconn"
	"parcelec-core/units"
)

type recorder struct {
	mu       sync.Mutex
	toPlayer map[ids.PlayerId][]playerconn.PlayerMessage
	toAll    []playerconn.PlayerMessage
}

func newRecorder() *recorder {
	return &recorder{toPlayer: make(map[ids.PlayerId][]playerconn.PlayerMessage)}
}

func (r *recorder) SendToPlayer(_ ids.GameId, player ids.PlayerId, message playerconn.PlayerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toPlayer[player] = append(r.toPlayer[player], message)
}

func (r *recorder) SendToAllPlayers(_ ids.GameId, message playerconn.PlayerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toAll = append(r.toAll, message)
}

func (r *recorder) messagesFor(player ids.PlayerId) []playerconn.PlayerMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]playerconn.PlayerMessage(nil), r.toPlayer[player]...)
}

func (r *recorder) broadcasts() []playerconn.PlayerMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]playerconn.PlayerMessage(nil), r.toAll...)
}

func newTestMarket(t *testing.T) (*MarketActor, *recorder, context.CancelFunc) {
	t.Helper()
	conns := newRecorder()
	actor := New(ids.NewGameId(), conns, 16, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	go actor.Run(ctx)
	return actor, conns, cancel
}

func TestBroadcastBookSnapshotIsPersonalisedPerPlayer(t *testing.T) {
	actor, conns, cancel := newTestMarket(t)
	defer cancel()
	ctx := context.Background()

	buyer, seller := ids.NewPlayerId(), ids.NewPlayerId()

	// GetSnapshot registers a player as known to the market, the way
	// the original only learns about a player on its first
	// GetMarketSnapshot request.
	actor.GetSnapshot(ctx, buyer)
	actor.GetSnapshot(ctx, seller)

	actor.Open(ids.PreGame)
	time.Sleep(10 * time.Millisecond)

	actor.SubmitOrder(buyer, domain.Buy, units.EnergyCost(40), units.Energy(10))
	time.Sleep(10 * time.Millisecond)

	buyerMsgs := conns.messagesFor(buyer)
	var sawOwnOrder bool
	for _, msg := range buyerMsgs {
		if msg.OrderBookSnapshot == nil {
			continue
		}
		for _, bid := range msg.OrderBookSnapshot.Bids {
			if bid.Owned {
				sawOwnOrder = true
			}
		}
	}
	if !sawOwnOrder {
		t.Fatalf("expected buyer's personalised order book snapshot to mark their own resting order as owned")
	}

	sellerMsgs := conns.messagesFor(seller)
	for _, msg := range sellerMsgs {
		if msg.OrderBookSnapshot == nil {
			continue
		}
		for _, bid := range msg.OrderBookSnapshot.Bids {
			if bid.Owned {
				t.Fatalf("expected seller's personalised snapshot to never mark the buyer's order as owned")
			}
		}
	}
}

func TestCloseBroadcastsEmptyTradeListToAll(t *testing.T) {
	actor, conns, cancel := newTestMarket(t)
	defer cancel()
	ctx := context.Background()

	actor.Open(ids.PreGame)
	time.Sleep(10 * time.Millisecond)
	actor.Close(ctx, ids.DeliveryPeriodId(1))

	var sawEmptyTradeList bool
	for _, msg := range conns.broadcasts() {
		if msg.TradeList != nil && len(msg.TradeList.Trades) == 0 {
			sawEmptyTradeList = true
		}
	}
	if !sawEmptyTradeList {
		t.Fatalf("expected market close to broadcast an empty TradeList to all players")
	}
}
