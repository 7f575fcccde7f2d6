// Package market implements the per-game continuous-auction market
// described in spec.md §4.2: a single goroutine owns one OrderBook and
// serialises every mutation through its inbox, mirroring the teacher's
// matching-engine goroutine (one task owns one book, channel-based
// submission, no locks).
package market

import (
	"context"
	"log/slog"

	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/metrics"
	"parcelec-core/orderbook"
	"parcelec-core/playerconn"
	"parcelec-core/units"
)

// Snapshot is the personalised reply to GetMarketSnapshot: the
// requesting player's trades so far this period, their view of the
// book, and nothing about forecasts (that's the stack's job).
type Snapshot struct {
	Period ids.DeliveryPeriodId
	Book   orderbook.Snapshot
	Trades []domain.Trade
}

type openMsg struct {
	period ids.DeliveryPeriodId
}

type closeMsg struct {
	period ids.DeliveryPeriodId
	reply  chan []domain.Trade
}

type orderRequestMsg struct {
	owner     ids.PlayerId
	direction domain.Direction
	price     units.EnergyCost
	volume    units.Energy
}

type orderDeletionMsg struct {
	owner ids.PlayerId
	id    ids.OrderId
}

type snapshotRequestMsg struct {
	player ids.PlayerId
	reply  chan Snapshot
}

// MarketActor owns one game's order book for its lifetime. Every
// method below sends a message on its inbox and returns immediately
// (or, for request/reply calls, waits on a per-call reply channel) —
// the book itself is only ever touched from the run loop goroutine.
type MarketActor struct {
	gameID ids.GameId
	conns  playerconn.PlayerConnections
	log    *slog.Logger

	inbox chan any

	open          bool
	currentPeriod ids.DeliveryPeriodId
	book          *orderbook.OrderBook
	orders        map[ids.OrderId]*domain.Order
	ownerOf       map[ids.OrderId]ids.PlayerId
	pastTrades    map[ids.DeliveryPeriodId][]domain.Trade
	tradesByOwner map[ids.PlayerId][]domain.Trade
	players       map[ids.PlayerId]struct{}
}

// New creates a market actor for one game, starting Closed at period
// pre-game. It does not start the run loop: messages are processed
// only once Run is called, until its context is cancelled.
func New(gameID ids.GameId, conns playerconn.PlayerConnections, inboxCapacity int, log *slog.Logger) *MarketActor {
	return &MarketActor{
		gameID:        gameID,
		conns:         conns,
		log:           log,
		inbox:         make(chan any, inboxCapacity),
		currentPeriod: ids.PreGame,
		book:          orderbook.New(),
		orders:        make(map[ids.OrderId]*domain.Order),
		ownerOf:       make(map[ids.OrderId]ids.PlayerId),
		pastTrades:    make(map[ids.DeliveryPeriodId][]domain.Trade),
		tradesByOwner: make(map[ids.PlayerId][]domain.Trade),
		players:       make(map[ids.PlayerId]struct{}),
	}
}

// Run processes the inbox until ctx is cancelled, per spec.md §5:
// messages are handled strictly in arrival order, cancellation is
// advisory and checked only at the top of the loop.
func (m *MarketActor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.inbox:
			m.handle(ctx, msg)
		}
	}
}

func (m *MarketActor) handle(ctx context.Context, msg any) {
	switch v := msg.(type) {
	case openMsg:
		m.handleOpen(v)
	case closeMsg:
		m.handleClose(v)
	case orderRequestMsg:
		m.handleOrderRequest(v)
	case orderDeletionMsg:
		m.handleOrderDeletion(v)
	case snapshotRequestMsg:
		m.handleSnapshotRequest(v)
	}
}

func (m *MarketActor) handleOpen(msg openMsg) {
	if m.open {
		m.log.Warn("open market ignored: already open", "game_id", m.gameID, "period", msg.period)
		return
	}
	if msg.period != m.currentPeriod {
		m.log.Warn("open market ignored: wrong period", "game_id", m.gameID, "requested", msg.period, "current", m.currentPeriod)
		return
	}
	m.open = true
	m.currentPeriod = m.currentPeriod.Next()
	m.broadcastMarketState()
}

func (m *MarketActor) handleClose(msg closeMsg) {
	if trades, ok := m.pastTrades[msg.period]; ok {
		m.reply(msg.reply, trades)
		return
	}
	if !m.open || msg.period != m.currentPeriod {
		m.log.Warn("close market ignored: wrong state/period", "game_id", m.gameID, "requested", msg.period, "current", m.currentPeriod, "open", m.open)
		m.reply(msg.reply, nil)
		return
	}

	trades := m.book.Drain()
	m.pastTrades[msg.period] = trades
	m.open = false
	// Each trade was recorded and sent to its counterparties when it
	// executed; the per-player trade lists start over with the next period.
	m.tradesByOwner = make(map[ids.PlayerId][]domain.Trade)

	m.reply(msg.reply, trades)
	m.broadcastMarketState()
	m.broadcastBookSnapshot()
	m.conns.SendToAllPlayers(m.gameID, playerconn.PlayerMessage{
		TradeList: &playerconn.TradeList{Period: msg.period, Trades: nil},
	})
}

func (m *MarketActor) handleOrderRequest(msg orderRequestMsg) {
	if !m.open {
		m.log.Warn("order request dropped: market closed", "game_id", m.gameID, "owner", msg.owner)
		return
	}
	if msg.volume <= 0 {
		m.log.Warn("order request dropped: volume must be positive", "game_id", m.gameID, "owner", msg.owner, "volume", msg.volume)
		return
	}
	order := domain.NewOrder(msg.owner, msg.direction, msg.price, msg.volume)
	metrics.OrdersRegistered.WithLabelValues(msg.direction.String()).Inc()
	trades := m.book.RegisterOrder(order)
	if !order.IsFilled() {
		m.orders[order.ID] = order
		m.ownerOf[order.ID] = msg.owner
	}
	metrics.TradesExecuted.Add(float64(len(trades)))

	for _, trade := range trades {
		buyerLeg, sellerLeg := trade.Legs()
		m.tradesByOwner[trade.Buyer] = append(m.tradesByOwner[trade.Buyer], trade)
		m.tradesByOwner[trade.Seller] = append(m.tradesByOwner[trade.Seller], trade)
		m.conns.SendToPlayer(m.gameID, trade.Buyer, playerconn.PlayerMessage{
			NewTrade: &playerconn.NewTrade{Period: m.currentPeriod, Leg: buyerLeg},
		})
		m.conns.SendToPlayer(m.gameID, trade.Seller, playerconn.PlayerMessage{
			NewTrade: &playerconn.NewTrade{Period: m.currentPeriod, Leg: sellerLeg},
		})
	}

	m.broadcastBookSnapshot()
}

func (m *MarketActor) handleOrderDeletion(msg orderDeletionMsg) {
	order, ok := m.orders[msg.id]
	if !ok || m.ownerOf[msg.id] != msg.owner {
		m.log.Warn("order deletion ignored: unknown order", "game_id", m.gameID, "order_id", msg.id)
		return
	}
	m.book.RemoveOrder(order)
	delete(m.orders, msg.id)
	delete(m.ownerOf, msg.id)
	m.broadcastBookSnapshot()
}

func (m *MarketActor) handleSnapshotRequest(msg snapshotRequestMsg) {
	m.players[msg.player] = struct{}{}
	snap := Snapshot{
		Period: m.currentPeriod,
		Book:   m.book.Snapshot(msg.player),
		Trades: append([]domain.Trade(nil), m.tradesByOwner[msg.player]...),
	}
	m.reply(msg.reply, snap)
}

// broadcastBookSnapshot sends each known player their own personalised
// view of the book (Owned flags set relative to that player), the way
// the original fans out send_order_book_snapshot_to_player per player
// rather than one shared broadcast.
func (m *MarketActor) broadcastBookSnapshot() {
	for player := range m.players {
		snap := m.book.Snapshot(player)
		m.conns.SendToPlayer(m.gameID, player, playerconn.PlayerMessage{
			OrderBookSnapshot: &playerconn.OrderBookSnapshot{Period: m.currentPeriod, Bids: snap.Bids, Offers: snap.Offers},
		})
	}
}

func (m *MarketActor) broadcastMarketState() {
	m.conns.SendToAllPlayers(m.gameID, playerconn.PlayerMessage{
		MarketState: &playerconn.MarketState{Open: m.open, Period: m.currentPeriod},
	})
}

// reply sends to a reply channel without blocking forever if the
// caller already gave up — per spec.md §7, a lost reply channel is
// logged and otherwise ignored.
func (m *MarketActor) reply(ch chan []domain.Trade, trades []domain.Trade) {
	select {
	case ch <- trades:
	default:
		m.log.Error("lost reply channel on market close", "game_id", m.gameID)
	}
}

// Open requests the market open the period that follows p, where p is
// the market's current period (ids.PreGame before the first period).
// Fire-and-forget.
func (m *MarketActor) Open(p ids.DeliveryPeriodId) {
	m.inbox <- openMsg{period: p}
}

// Close requests the market close for period p and blocks for the
// drained trade list.
func (m *MarketActor) Close(ctx context.Context, p ids.DeliveryPeriodId) []domain.Trade {
	reply := make(chan []domain.Trade, 1)
	select {
	case m.inbox <- closeMsg{period: p, reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case trades := <-reply:
		return trades
	case <-ctx.Done():
		return nil
	}
}

// SubmitOrder requests a new order be registered. Fire-and-forget.
func (m *MarketActor) SubmitOrder(owner ids.PlayerId, direction domain.Direction, price units.EnergyCost, volume units.Energy) {
	m.inbox <- orderRequestMsg{owner: owner, direction: direction, price: price, volume: volume}
}

// DeleteOrder requests an order be removed. Fire-and-forget.
func (m *MarketActor) DeleteOrder(owner ids.PlayerId, id ids.OrderId) {
	m.inbox <- orderDeletionMsg{owner: owner, id: id}
}

// GetSnapshot requests a player-personalised market snapshot.
func (m *MarketActor) GetSnapshot(ctx context.Context, player ids.PlayerId) Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case m.inbox <- snapshotRequestMsg{player: player, reply: reply}:
	case <-ctx.Done():
		return Snapshot{}
	}
	select {
	case snap := <-reply:
		return snap
	case <-ctx.Done():
		return Snapshot{}
	}
}
