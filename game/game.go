// Package game implements GameActor, the top-level per-game state
// machine described in spec.md §4.6: it owns the player roster, the
// market actor, every player's stack actor, and drives the
// Open -> Running(p) -> PostDelivery(p) -> {Running(p+1) | Ended(p)}
// lifecycle by spawning a scheduler for each delivery period.
package game

import (
	"context"
	"fmt"
	"log/slog"

	"parcelec-core/ids"
	"parcelec-core/market"
	"parcelec-core/metrics"
	"parcelec-core/plant"
	"parcelec-core/playerconn"
	"parcelec-core/scheduler"
	"parcelec-core/scoring"
	"parcelec-core/stack"
	"parcelec-core/units"
)

// Phase names the coarse state GameActor is in. Carrying the period
// alongside the phase mirrors the original's Running(p)/PostDelivery(p)
// state variants.
type Phase string

const (
	PhaseOpen         Phase = "open"
	PhaseRunning      Phase = "running"
	PhasePostDelivery Phase = "post_delivery"
	PhaseEnded        Phase = "ended"
)

// PlantFactory builds one player's stack of plants when they register.
// Every game is configured with one, since plant construction (fuel
// costs, capacities, timeseries) is scenario-specific.
type PlantFactory func(player ids.PlayerId) []plant.PowerPlant

// Config bundles the knobs GameActor needs beyond its player roster.
type Config struct {
	LastPeriod    ids.DeliveryPeriodId
	Timers        scheduler.Timers
	Scoring       scoring.Config
	Tiers         scoring.TierLimits
	Plants        PlantFactory
	InboxCapacity int
}

type registerMsg struct {
	name  string
	reply chan registerReply
}

type registerReply struct {
	player ids.PlayerId
	err    error
}

type readyMsg struct {
	player ids.PlayerId
}

type periodResultMsg struct {
	result scheduler.Result
}

type getScoresMsg struct {
	player ids.PlayerId
	reply  chan ScoresReply
}

// ScoresReply carries the requesting player's scores for every
// delivery period scored so far, or, once the game has ended, the
// full final rankings.
type ScoresReply struct {
	Scores   map[ids.DeliveryPeriodId]scoring.PlayerScore
	Rankings []scoring.Ranking
	Ended    bool
}

type getReadinessMsg struct {
	reply chan map[string]bool
}

type getStackMsg struct {
	player ids.PlayerId
	reply  chan *stack.StackActor
}

// GameActor owns one running game for its lifetime.
type GameActor struct {
	id     ids.GameId
	conns  playerconn.PlayerConnections
	log    *slog.Logger
	cfg    Config
	market *market.MarketActor

	inbox chan any

	phase         Phase
	currentPeriod ids.DeliveryPeriodId
	names         map[string]ids.PlayerId
	playerNames   map[ids.PlayerId]string
	ready         map[ids.PlayerId]bool
	stacks        map[ids.PlayerId]*stack.StackActor
	stacksCancel  map[ids.PlayerId]context.CancelFunc
	scores        map[ids.PlayerId]map[ids.DeliveryPeriodId]scoring.PlayerScore
	rankings      []scoring.Ranking

	earlyFinish chan struct{}
}

// New creates a new game actor, starting in the Open phase, and starts
// its market actor's run loop under ctx.
func New(ctx context.Context, conns playerconn.PlayerConnections, cfg Config, log *slog.Logger) *GameActor {
	id := ids.NewGameId()
	g := &GameActor{
		id:           id,
		conns:        conns,
		log:          log,
		cfg:          cfg,
		market:       market.New(id, conns, cfg.InboxCapacity, log),
		inbox:        make(chan any, cfg.InboxCapacity),
		phase:        PhaseOpen,
		names:        make(map[string]ids.PlayerId),
		playerNames:  make(map[ids.PlayerId]string),
		ready:        make(map[ids.PlayerId]bool),
		stacks:       make(map[ids.PlayerId]*stack.StackActor),
		stacksCancel: make(map[ids.PlayerId]context.CancelFunc),
		scores:       make(map[ids.PlayerId]map[ids.DeliveryPeriodId]scoring.PlayerScore),
	}
	go g.market.Run(ctx)
	metrics.OpenGames.Inc()
	return g
}

// ID returns this game's identifier.
func (g *GameActor) ID() ids.GameId { return g.id }

// Run processes the inbox until ctx is cancelled, per spec.md §5:
// cancellation is advisory and propagates to every owned stack.
func (g *GameActor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, cancel := range g.stacksCancel {
				cancel()
			}
			return
		case msg := <-g.inbox:
			g.handle(ctx, msg)
		}
	}
}

func (g *GameActor) handle(ctx context.Context, msg any) {
	switch v := msg.(type) {
	case registerMsg:
		g.handleRegister(ctx, v)
	case readyMsg:
		g.handleReady(ctx, v)
	case periodResultMsg:
		g.handlePeriodResult(v)
	case getScoresMsg:
		g.handleGetScores(v)
	case getReadinessMsg:
		g.handleGetReadiness(v)
	case getStackMsg:
		g.handleGetStack(v)
	}
}

func (g *GameActor) handleRegister(ctx context.Context, msg registerMsg) {
	if g.phase != PhaseOpen {
		g.replyRegister(msg.reply, registerReply{err: fmt.Errorf("cannot register after the game has started")})
		return
	}
	if _, exists := g.names[msg.name]; exists {
		g.replyRegister(msg.reply, registerReply{err: fmt.Errorf("player name %q already taken", msg.name)})
		return
	}

	player := ids.NewPlayerId()
	g.names[msg.name] = player
	g.playerNames[player] = msg.name
	g.ready[player] = false

	plants := g.cfg.Plants(player)
	s := stack.New(g.id, player, plants, g.conns, g.cfg.InboxCapacity, g.log)
	stackCtx, cancel := context.WithCancel(ctx)
	g.stacks[player] = s
	g.stacksCancel[player] = cancel
	go s.Run(stackCtx)

	metrics.PlayersInGame.WithLabelValues(string(g.id)).Set(float64(len(g.names)))

	g.replyRegister(msg.reply, registerReply{player: player})
	g.broadcastReadiness()
}

func (g *GameActor) replyRegister(ch chan registerReply, reply registerReply) {
	select {
	case ch <- reply:
	default:
		g.log.Error("lost reply channel on register player", "game_id", g.id)
	}
}

func (g *GameActor) handleReady(ctx context.Context, msg readyMsg) {
	if _, ok := g.ready[msg.player]; !ok {
		g.log.Warn("ready signal from unknown player", "game_id", g.id, "player", msg.player)
		return
	}
	g.ready[msg.player] = true
	g.broadcastReadiness()

	if !g.allReady() {
		return
	}

	switch g.phase {
	case PhaseOpen:
		g.startPeriod(ctx, ids.PreGame.Next())
	case PhaseRunning:
		if g.earlyFinish != nil {
			close(g.earlyFinish)
			g.earlyFinish = nil
		}
	case PhasePostDelivery:
		if g.currentPeriod < g.cfg.LastPeriod {
			g.startPeriod(ctx, g.currentPeriod.Next())
		} else {
			g.endGame()
		}
	case PhaseEnded:
		// no-op
	}
}

func (g *GameActor) allReady() bool {
	if len(g.ready) == 0 {
		return false
	}
	for _, ready := range g.ready {
		if !ready {
			return false
		}
	}
	return true
}

func (g *GameActor) resetReadiness() {
	for player := range g.ready {
		g.ready[player] = false
	}
}

func (g *GameActor) startPeriod(ctx context.Context, period ids.DeliveryPeriodId) {
	g.phase = PhaseRunning
	g.currentPeriod = period
	g.resetReadiness()
	g.earlyFinish = make(chan struct{})

	stacksCopy := make(map[ids.PlayerId]*stack.StackActor, len(g.stacks))
	for id, s := range g.stacks {
		stacksCopy[id] = s
	}
	earlyFinish := g.earlyFinish
	inbox := g.inbox

	go func() {
		result := scheduler.Run(ctx, g.log, g.cfg.Scoring, period, g.market, stacksCopy, g.cfg.Timers, earlyFinish)
		select {
		case inbox <- periodResultMsg{result: result}:
		case <-ctx.Done():
		}
	}()

	g.broadcastGameState()
}

func (g *GameActor) handlePeriodResult(msg periodResultMsg) {
	if g.phase != PhaseRunning || msg.result.Period != g.currentPeriod {
		g.log.Warn("delivery period result ignored: wrong state/period", "game_id", g.id, "period", msg.result.Period, "current", g.currentPeriod, "phase", g.phase)
		return
	}

	for player, score := range msg.result.Scores {
		if g.scores[player] == nil {
			g.scores[player] = make(map[ids.DeliveryPeriodId]scoring.PlayerScore)
		}
		g.scores[player][msg.result.Period] = score
		g.conns.SendToPlayer(g.id, player, playerconn.PlayerMessage{
			DeliveryPeriodResults: &playerconn.DeliveryPeriodResults{Period: msg.result.Period, Score: score},
		})
	}

	metrics.PeriodsCompleted.Inc()
	g.phase = PhasePostDelivery
	g.broadcastGameState()
}

func (g *GameActor) endGame() {
	totals := make(map[ids.PlayerId]units.Money)
	for player, byPeriod := range g.scores {
		var total units.Money
		for _, score := range byPeriod {
			total = total.Add(score.Total())
		}
		totals[player] = total
	}
	g.rankings = scoring.Rank(totals, g.cfg.Tiers)
	g.phase = PhaseEnded
	metrics.OpenGames.Dec()
	g.broadcastGameState()
	g.conns.SendToAllPlayers(g.id, playerconn.PlayerMessage{
		GameResults: &playerconn.GameResults{Rankings: g.rankings},
	})
}

func (g *GameActor) handleGetScores(msg getScoresMsg) {
	if g.phase == PhaseEnded {
		g.replyScores(msg.reply, ScoresReply{Ended: true, Rankings: g.rankings})
		return
	}
	byPeriod := g.scores[msg.player]
	scores := make(map[ids.DeliveryPeriodId]scoring.PlayerScore, len(byPeriod))
	for period, score := range byPeriod {
		scores[period] = score
	}
	g.replyScores(msg.reply, ScoresReply{Scores: scores})
}

func (g *GameActor) replyScores(ch chan ScoresReply, reply ScoresReply) {
	select {
	case ch <- reply:
	default:
		g.log.Error("lost reply channel on get scores", "game_id", g.id)
	}
}

func (g *GameActor) handleGetReadiness(msg getReadinessMsg) {
	readiness := make(map[string]bool, len(g.ready))
	for player, ready := range g.ready {
		readiness[g.playerNames[player]] = ready
	}
	select {
	case msg.reply <- readiness:
	default:
		g.log.Error("lost reply channel on get readiness", "game_id", g.id)
	}
}

func (g *GameActor) handleGetStack(msg getStackMsg) {
	select {
	case msg.reply <- g.stacks[msg.player]:
	default:
		g.log.Error("lost reply channel on get stack", "game_id", g.id)
	}
}

func (g *GameActor) broadcastGameState() {
	g.conns.SendToAllPlayers(g.id, playerconn.PlayerMessage{
		GameState: &playerconn.GameState{Phase: string(g.phase), Period: g.currentPeriod},
	})
}

func (g *GameActor) broadcastReadiness() {
	readiness := make(map[string]bool, len(g.ready))
	for player, ready := range g.ready {
		readiness[g.playerNames[player]] = ready
	}
	g.conns.SendToAllPlayers(g.id, playerconn.PlayerMessage{
		ReadinessStatus: &playerconn.ReadinessStatus{Readiness: readiness},
	})
}

// RegisterPlayer mints a new player and spawns their stack actor. It
// is only accepted while the game is Open.
func (g *GameActor) RegisterPlayer(ctx context.Context, name string) (ids.PlayerId, error) {
	reply := make(chan registerReply, 1)
	select {
	case g.inbox <- registerMsg{name: name, reply: reply}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case r := <-reply:
		return r.player, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// PlayerIsReady marks a player ready for the current phase. Fire-and-forget.
func (g *GameActor) PlayerIsReady(player ids.PlayerId) {
	g.inbox <- readyMsg{player: player}
}

// GetScores returns a player's score for every delivery period scored
// so far, or the final rankings once the game has ended.
func (g *GameActor) GetScores(ctx context.Context, player ids.PlayerId) ScoresReply {
	reply := make(chan ScoresReply, 1)
	select {
	case g.inbox <- getScoresMsg{player: player, reply: reply}:
	case <-ctx.Done():
		return ScoresReply{}
	}
	select {
	case r := <-reply:
		return r
	case <-ctx.Done():
		return ScoresReply{}
	}
}

// Market returns this game's market actor. The market actor is
// constructed once up front and never replaced, so it's safe to read
// directly without routing through the inbox.
func (g *GameActor) Market() *market.MarketActor { return g.market }

// StackFor returns a player's stack actor, or nil if the player is
// unknown, routed through the inbox since the stack map is mutated
// only from the run loop during registration.
func (g *GameActor) StackFor(ctx context.Context, player ids.PlayerId) *stack.StackActor {
	reply := make(chan *stack.StackActor, 1)
	select {
	case g.inbox <- getStackMsg{player: player, reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case r := <-reply:
		return r
	case <-ctx.Done():
		return nil
	}
}

// GetReadiness returns the current name -> ready map.
func (g *GameActor) GetReadiness(ctx context.Context) map[string]bool {
	reply := make(chan map[string]bool, 1)
	select {
	case g.inbox <- getReadinessMsg{reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case r := <-reply:
		return r
	case <-ctx.Done():
		return nil
	}
}
