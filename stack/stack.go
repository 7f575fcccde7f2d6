// Package stack implements StackActor, the per-player goroutine owning
// that player's power plant stack (spec.md §4.3). It is symmetric to
// the market package's MarketActor: Closed <-> Open, carrying its own
// current_delivery_period, same goroutine-owns-state/channel-inbox
// shape grounded on the teacher's matching-engine pattern.
package stack

import (
	"context"
	"log/slog"

	"parcelec-core/ids"
	"parcelec-core/plant"
	"parcelec-core/playerconn"
	"parcelec-core/units"
)

type openMsg struct {
	period ids.DeliveryPeriodId
}

type closeMsg struct {
	period ids.DeliveryPeriodId
	reply  chan map[ids.PlantId]plant.PlantOutput
}

type programMsg struct {
	plantID  ids.PlantId
	setpoint units.Power
}

type snapshotRequestMsg struct {
	reply chan Snapshot
}

// Snapshot is the public view of every plant in a stack, for a
// GetStackSnapshot request.
type Snapshot struct {
	Period ids.DeliveryPeriodId
	Plants map[ids.PlantId]any
}

// StackActor owns one player's plants for the lifetime of a game. Like
// MarketActor, every mutation is serialised through its inbox so the
// plant map is only ever touched by the run loop goroutine.
type StackActor struct {
	gameID ids.GameId
	player ids.PlayerId
	conns  playerconn.PlayerConnections
	log    *slog.Logger

	inbox chan any

	open          bool
	currentPeriod ids.DeliveryPeriodId
	plants        map[ids.PlantId]plant.PowerPlant
	order         []ids.PlantId
	pastOutputs   map[ids.DeliveryPeriodId]map[ids.PlantId]plant.PlantOutput
}

// New creates a stack actor for one player, owning plants, starting
// Closed at the pre-game period.
func New(gameID ids.GameId, player ids.PlayerId, plants []plant.PowerPlant, conns playerconn.PlayerConnections, inboxCapacity int, log *slog.Logger) *StackActor {
	byID := make(map[ids.PlantId]plant.PowerPlant, len(plants))
	order := make([]ids.PlantId, 0, len(plants))
	for _, p := range plants {
		byID[p.ID()] = p
		order = append(order, p.ID())
	}
	return &StackActor{
		gameID:        gameID,
		player:        player,
		conns:         conns,
		log:           log,
		inbox:         make(chan any, inboxCapacity),
		currentPeriod: ids.PreGame,
		plants:        byID,
		order:         order,
		pastOutputs:   make(map[ids.DeliveryPeriodId]map[ids.PlantId]plant.PlantOutput),
	}
}

// Run processes the inbox until ctx is cancelled.
func (s *StackActor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.inbox:
			s.handle(msg)
		}
	}
}

func (s *StackActor) handle(msg any) {
	switch v := msg.(type) {
	case openMsg:
		s.handleOpen(v)
	case closeMsg:
		s.handleClose(v)
	case programMsg:
		s.handleProgram(v)
	case snapshotRequestMsg:
		s.handleSnapshotRequest(v)
	}
}

func (s *StackActor) handleOpen(msg openMsg) {
	if s.open {
		s.log.Warn("open stack ignored: already open", "game_id", s.gameID, "player", s.player, "period", msg.period)
		return
	}
	if msg.period != s.currentPeriod {
		s.log.Warn("open stack ignored: wrong period", "game_id", s.gameID, "player", s.player, "requested", msg.period, "current", s.currentPeriod)
		return
	}
	s.open = true
	s.currentPeriod = s.currentPeriod.Next()
	s.broadcastStackState()
	s.broadcastForecasts()
}

func (s *StackActor) handleClose(msg closeMsg) {
	if outputs, ok := s.pastOutputs[msg.period]; ok {
		s.reply(msg.reply, outputs)
		return
	}
	if !s.open || msg.period != s.currentPeriod {
		s.log.Warn("close stack ignored: wrong state/period", "game_id", s.gameID, "player", s.player, "requested", msg.period, "current", s.currentPeriod, "open", s.open)
		s.reply(msg.reply, map[ids.PlantId]plant.PlantOutput{})
		return
	}

	outputs := make(map[ids.PlantId]plant.PlantOutput, len(s.order))
	for _, id := range s.order {
		outputs[id] = s.plants[id].Dispatch()
	}
	s.pastOutputs[msg.period] = outputs
	s.open = false

	s.reply(msg.reply, outputs)
	s.broadcastStackState()
	s.broadcastSnapshot()
	s.broadcastForecasts()
}

func (s *StackActor) handleProgram(msg programMsg) {
	p, ok := s.plants[msg.plantID]
	if !ok {
		s.log.Warn("program plant ignored: unknown plant", "game_id", s.gameID, "player", s.player, "plant_id", msg.plantID)
		return
	}
	if !s.open {
		s.log.Warn("program plant ignored: stack closed", "game_id", s.gameID, "player", s.player, "plant_id", msg.plantID)
		return
	}
	p.ProgramSetpoint(msg.setpoint)
	s.broadcastSnapshot()
}

func (s *StackActor) handleSnapshotRequest(msg snapshotRequestMsg) {
	select {
	case msg.reply <- s.snapshot():
	default:
		s.log.Error("lost reply channel on stack snapshot request", "game_id", s.gameID, "player", s.player)
	}
}

func (s *StackActor) snapshot() Snapshot {
	plants := make(map[ids.PlantId]any, len(s.order))
	for _, id := range s.order {
		plants[id] = s.plants[id].CurrentState()
	}
	return Snapshot{Period: s.currentPeriod, Plants: plants}
}

func (s *StackActor) broadcastSnapshot() {
	s.conns.SendToPlayer(s.gameID, s.player, playerconn.PlayerMessage{
		StackSnapshot: &playerconn.StackSnapshot{Period: s.currentPeriod, Plants: s.snapshot().Plants},
	})
}

func (s *StackActor) broadcastForecasts() {
	forecasts := make(map[ids.PlantId][]plant.Forecast, len(s.order))
	for _, id := range s.order {
		if f := s.plants[id].GetForecast(); f != nil {
			forecasts[id] = f
		}
	}
	s.conns.SendToPlayer(s.gameID, s.player, playerconn.PlayerMessage{
		StackForecasts: &playerconn.StackForecasts{Period: s.currentPeriod, Forecast: forecasts},
	})
}

func (s *StackActor) broadcastStackState() {
	s.conns.SendToPlayer(s.gameID, s.player, playerconn.PlayerMessage{
		StackState: &playerconn.StackState{Open: s.open, Period: s.currentPeriod},
	})
}

func (s *StackActor) reply(ch chan map[ids.PlantId]plant.PlantOutput, outputs map[ids.PlantId]plant.PlantOutput) {
	select {
	case ch <- outputs:
	default:
		s.log.Error("lost reply channel on stack close", "game_id", s.gameID, "player", s.player)
	}
}

// Open requests the stack open the period that follows p, where p is
// the stack's current period (ids.PreGame before the first period).
// Fire-and-forget.
func (s *StackActor) Open(p ids.DeliveryPeriodId) {
	s.inbox <- openMsg{period: p}
}

// Close requests the stack close for period p and blocks for every
// plant's dispatched output.
func (s *StackActor) Close(ctx context.Context, p ids.DeliveryPeriodId) map[ids.PlantId]plant.PlantOutput {
	reply := make(chan map[ids.PlantId]plant.PlantOutput, 1)
	select {
	case s.inbox <- closeMsg{period: p, reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case outputs := <-reply:
		return outputs
	case <-ctx.Done():
		return nil
	}
}

// ProgramSetpoint requests a candidate setpoint be programmed on one
// plant. Fire-and-forget.
func (s *StackActor) ProgramSetpoint(plantID ids.PlantId, setpoint units.Power) {
	s.inbox <- programMsg{plantID: plantID, setpoint: setpoint}
}

// GetSnapshot requests the stack's current public snapshot.
func (s *StackActor) GetSnapshot(ctx context.Context) Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case s.inbox <- snapshotRequestMsg{reply: reply}:
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
