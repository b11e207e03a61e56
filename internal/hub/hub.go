package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sakshamg567/blockfall/internal/results"
	"github.com/sakshamg567/blockfall/internal/room"
	"github.com/sakshamg567/blockfall/logger"
)

var ErrStopped = errors.New("hub stopped")

// Sink delivers one outbound event to a single connection.
type Sink interface {
	Send(event string, payload any)
}

// Recorder receives the result of every concluded match.
type Recorder interface {
	Record(results.MatchResult)
}

type commandKind int

const (
	cmdConnect commandKind = iota
	cmdMessage
	cmdDisconnect
	cmdQuery
)

func (k commandKind) String() string {
	switch k {
	case cmdConnect:
		return "connect"
	case cmdMessage:
		return "message"
	case cmdDisconnect:
		return "disconnect"
	case cmdQuery:
		return "query"
	}
	return "unknown"
}

type command struct {
	kind   commandKind
	connID string
	sink   Sink
	msg    Message
	query  func(*room.Directory)
	done   chan struct{}
}

// Hub owns the room directory and every connection's sink. All state is
// touched only from the Run goroutine.
type Hub struct {
	dir     *room.Directory
	sinks   map[string]Sink
	inbox   chan command
	stopped chan struct{}
	results Recorder
	now     func() time.Time
}

type Option func(*Hub)

func WithResults(r Recorder) Option {
	return func(h *Hub) {
		h.results = r
	}
}

func New(dir *room.Directory, opts ...Option) *Hub {
	h := &Hub{
		dir:     dir,
		sinks:   make(map[string]Sink),
		inbox:   make(chan command, 256),
		stopped: make(chan struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	logger.Info("hub running")
	for {
		select {
		case <-ctx.Done():
			logger.Info("hub stopping: %v", ctx.Err())
			return
		case c := <-h.inbox:
			h.handle(c)
		}
	}
}

func (h *Hub) submit(c command) bool {
	select {
	case h.inbox <- c:
		return true
	case <-h.stopped:
		return false
	}
}

// Connect registers the sink for a new connection.
func (h *Hub) Connect(connID string, sink Sink) {
	h.submit(command{kind: cmdConnect, connID: connID, sink: sink})
}

// Dispatch queues an inbound message from a connection.
func (h *Hub) Dispatch(connID string, msg Message) {
	h.submit(command{kind: cmdMessage, connID: connID, msg: msg})
}

func (h *Hub) Disconnect(connID string) {
	h.submit(command{kind: cmdDisconnect, connID: connID})
}

// Query runs fn on the hub goroutine and waits for it to return.
func (h *Hub) Query(ctx context.Context, fn func(*room.Directory)) error {
	done := make(chan struct{})
	c := command{kind: cmdQuery, query: fn, done: done}
	select {
	case h.inbox <- c:
	case <-h.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-h.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handle(c command) {
	if c.done != nil {
		defer close(c.done)
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("hub %s from %q panicked: %v", c.kind, c.connID, r)
		}
	}()

	switch c.kind {
	case cmdConnect:
		h.sinks[c.connID] = c.sink
		logger.Debug("connection %s registered", c.connID)
	case cmdMessage:
		h.route(c.connID, c.msg)
	case cmdDisconnect:
		h.leave(c.connID)
	case cmdQuery:
		c.query(h.dir)
	}
}

func (h *Hub) route(connID string, msg Message) {
	logger.Debug("connection %s sent %s", connID, msg.Type)

	switch msg.Type {
	case EventJoinRoom, EventCreateRoom:
		var p joinPayload
		if !h.decode(connID, msg, &p) {
			return
		}
		h.join(connID, p, msg.Type == EventCreateRoom)

	case EventStartGame, EventRestartGame:
		var p roomPayload
		if !h.decode(connID, msg, &p) {
			return
		}
		h.start(connID, p.Room, msg.Type == EventRestartGame)

	case EventGameAction:
		var p actionPayload
		if !h.decode(connID, msg, &p) {
			return
		}
		h.action(connID, p)

	default:
		h.fail(connID, fmt.Errorf("unknown event %q", msg.Type))
	}
}

func (h *Hub) decode(connID string, msg Message, v any) bool {
	if len(msg.Data) == 0 {
		msg.Data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		logger.Warn("connection %s sent bad %s payload: %v", connID, msg.Type, err)
		h.fail(connID, fmt.Errorf("invalid %s payload", msg.Type))
		return false
	}
	return true
}

func (h *Hub) join(connID string, p joinPayload, create bool) {
	join := h.dir.Join
	if create {
		join = h.dir.CreateRoom
	}
	res, err := join(connID, p.Room, p.PlayerName)
	if err != nil {
		h.fail(connID, err)
		return
	}

	h.sendTo(connID, EventRoomJoined, res)
	h.broadcastExcept(res.Room, connID, EventPlayerJoined, playerJoined{
		PlayerName: res.PlayerName,
		IsHost:     res.IsHost,
		Players:    res.Players,
	})
	if st, ok := h.dir.State(res.Room); ok {
		h.sendTo(connID, EventRoomState, st)
	}
}

func (h *Hub) start(connID, roomID string, restart bool) {
	start, event := h.dir.Start, EventGameStarted
	if restart {
		start, event = h.dir.Restart, EventGameRestarted
	}
	snap, err := start(connID, roomID)
	if err != nil {
		h.fail(connID, err)
		return
	}
	h.broadcast(snap.Room, event, gameStarted{Success: true, GameState: snap})
}

func (h *Hub) action(connID string, p actionPayload) {
	res, err := h.dir.Action(connID, p.Room, p.Action)
	if err != nil {
		h.fail(connID, err)
		return
	}
	out := res.Outcome
	if !out.Applied {
		return
	}

	if res.Snapshot != nil {
		upd := gameUpdate{
			PlayerName:   res.PlayerName,
			Action:       res.Action,
			GameState:    res.Snapshot,
			GameEnded:    out.Ended,
			LinesCleared: out.LinesCleared,
		}
		if out.Ended && out.Winner != "" {
			winner := out.Winner
			upd.Winner = &winner
		}
		h.broadcast(res.Room, EventGameUpdate, upd)
	}
	h.broadcast(res.Room, EventSpectrumUpdate, spectrumUpdate{Room: res.Room, Players: res.Spectra})

	if out.Ended {
		h.record(res.Room, out.Winner, res.Standings)
	}
}

func (h *Hub) record(roomID, winner string, standings []room.PlayerSummary) {
	if h.results == nil {
		return
	}
	mr := results.MatchResult{
		Room:    roomID,
		Winner:  winner,
		Players: make([]results.Standing, 0, len(standings)),
		EndedAt: h.now().UTC(),
	}
	for _, s := range standings {
		mr.Players = append(mr.Players, results.Standing{
			Name:     s.PlayerName,
			Score:    s.Score,
			Lines:    s.Lines,
			GameOver: s.GameOver,
		})
	}
	h.results.Record(mr)
}

func (h *Hub) leave(connID string) {
	delete(h.sinks, connID)
	res, ok := h.dir.Disconnect(connID)
	if !ok || res.Closed {
		return
	}
	h.broadcast(res.Room, EventPlayerLeft, res)
	if !res.Ended {
		return
	}

	upd := gameUpdate{
		PlayerName: res.PlayerName,
		Action:     actionLeave,
		GameState:  res.Snapshot,
		GameEnded:  true,
	}
	if res.Winner != "" {
		winner := res.Winner
		upd.Winner = &winner
	}
	h.broadcast(res.Room, EventGameUpdate, upd)
	h.record(res.Room, res.Winner, res.Standings)
}

func (h *Hub) fail(connID string, err error) {
	h.sendTo(connID, EventError, errorPayload{Message: err.Error()})
}

func (h *Hub) sendTo(connID, event string, payload any) {
	sink, ok := h.sinks[connID]
	if !ok {
		logger.Debug("no sink for %s, dropping %s", connID, event)
		return
	}
	sink.Send(event, payload)
}

func (h *Hub) broadcast(roomID, event string, payload any) {
	h.broadcastExcept(roomID, "", event, payload)
}

func (h *Hub) broadcastExcept(roomID, except, event string, payload any) {
	for _, id := range h.dir.Members(roomID) {
		if id == except {
			continue
		}
		h.sendTo(id, event, payload)
	}
}
