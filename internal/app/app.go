package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ossrs/go-oryx-lib/logger"

	internalrooms "github.com/abhijeeth-pa/vredutech/internal/rooms"
)

// App is the coordination core: the room registry, the per-connection event
// pipeline, and the broadcast/reaper loops.
type App struct {
	logger   Logger
	registry *internalrooms.Registry
	conf     Config
}

type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Config is the timing surface of the core. Zero values fall back to the
// defaults below.
type Config struct {
	TickPeriod time.Duration // transform broadcast cadence
	ReapEvery  time.Duration // stale participant sweep cadence
	StaleAfter time.Duration // heartbeat age after which a participant is evicted
}

const (
	DefaultTickPeriod = 33 * time.Millisecond
	DefaultReapEvery  = 5 * time.Second
	DefaultStaleAfter = 10 * time.Second
)

const (
	// Time allowed to write a message to the client.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the client.
	pongWait = 30 * time.Second

	// Send pings to client with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Outbound queue depth per connection. Tick broadcasts drop when full.
	outQueueSize = 256
)

var handlers map[string]ActionHandler

func init() {
	handlers = map[string]ActionHandler{
		"join":              handleJoin,
		"transform-update":  handleTransformUpdate,
		"mute-changed":      handleMuteChanged,
		"teacher-mute-all":  handleTeacherMuteAll,
		"teacher-spotlight": handleTeacherSpotlight,
		"teacher-kick":      handleTeacherKick,
		"signal-offer":      handleSignal,
		"signal-answer":     handleSignal,
		"signal-ice":        handleSignal,
	}
}

func New(log Logger, conf Config) *App {
	if conf.TickPeriod <= 0 {
		conf.TickPeriod = DefaultTickPeriod
	}
	if conf.ReapEvery <= 0 {
		conf.ReapEvery = DefaultReapEvery
	}
	if conf.StaleAfter <= 0 {
		conf.StaleAfter = DefaultStaleAfter
	}

	return &App{
		logger:   log,
		registry: internalrooms.NewRegistry(),
		conf:     conf,
	}
}

// Start launches the broadcast and reaper loops. They stop when ctx ends.
func (a *App) Start(ctx context.Context) {
	go a.runBroadcast(ctx)
	go a.runReaper(ctx)
}

func (a *App) Health(_ context.Context) []byte {
	return []byte("OK")
}

func (a *App) Version(_ context.Context) []byte {
	return []byte("1.0.0")
}

// session is the per-connection state: the outbound queue and, after a join,
// the room membership this connection owns.
type session struct {
	out chan []byte

	mu          sync.Mutex
	room        *internalrooms.Room
	participant *internalrooms.Participant
}

func newSession() *session {
	return &session{out: make(chan []byte, outQueueSize)}
}

func (s *session) bind(room *internalrooms.Room, p *internalrooms.Participant) {
	s.mu.Lock()
	s.room = room
	s.participant = p
	s.mu.Unlock()
}

func (s *session) current() (*internalrooms.Room, *internalrooms.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room, s.participant
}

func (s *session) send(ctx context.Context, event string, data any) bool {
	message, err := json.Marshal(internalrooms.Outbound{Event: event, Data: data})
	if err != nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case s.out <- message:
		return true
	}
}

// WS runs one client connection until the transport closes or the context
// ends. Teardown synthesizes a leave for whatever the session last joined.
func (a *App) WS(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(logger.WithContext(ctx))
	defer a.closeConnection(ctx, cancel, conn)

	a.heartbeat(ctx, cancel, conn)

	sess := newSession()
	defer a.leaveCurrent(sess)

	inMessages := make(chan []byte)
	go a.readMessages(ctx, cancel, conn, inMessages)
	go a.dispatchMessages(ctx, cancel, sess, inMessages)

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-sess.out:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, m); err != nil {
				logger.Wf(ctx, "[WS] Ignore err %v for %v", err, conn.RemoteAddr())
				return
			}
		}
	}
}

func (a *App) closeConnection(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	err := conn.Close()
	if err != nil {
		logger.E(ctx, err.Error())
	}

	cancel()
}

func (a *App) heartbeat(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	err := conn.SetReadDeadline(time.Now().Add(pongWait))
	if err != nil {
		logger.E(ctx, err.Error())
		return
	}

	conn.SetPongHandler(func(string) error {
		err := conn.SetReadDeadline(time.Now().Add(pongWait))
		if err != nil {
			logger.E(ctx, err.Error())
			return err
		}
		return nil
	})

	ticker := time.NewTicker(pingPeriod)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
					cancel()
					return
				}
			}
		}
	}()
}

func (a *App) readMessages(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *websocket.Conn,
	inMessages chan []byte,
) {
	defer cancel()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			logger.Wf(ctx, "[InMessages] Ignore err %v", err)
			break
		}

		select {
		case <-ctx.Done():
			return
		case inMessages <- message:
		}
	}
}

func (a *App) dispatchMessages(
	ctx context.Context,
	cancel context.CancelFunc,
	sess *session,
	inMessages chan []byte,
) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-inMessages:
			a.handleMessage(ctx, sess, m)
		}
	}
}

// handleMessage decodes and dispatches one inbound event. Malformed, unknown,
// and rejected events are dropped without closing the connection.
func (a *App) handleMessage(ctx context.Context, sess *session, m []byte) {
	event := Event{}
	if err := json.Unmarshal(m, &event); err != nil {
		logger.Wf(ctx, "Drop malformed %s: %v", m, err)
		return
	}

	handler, ok := handlers[event.Event]
	if !ok {
		logger.Wf(ctx, "Drop unknown event %q", event.Event)
		return
	}

	if err := handler(ctx, a, sess, event); err != nil {
		logger.Wf(ctx, "Handle %q err %v", event.Event, err)
	}
}

// leaveCurrent is the transport-close path. It deliberately runs on a fresh
// context: the session's own context is already cancelled by the time the
// farewell broadcast goes out.
func (a *App) leaveCurrent(sess *session) {
	room, p := sess.current()
	if room == nil || p == nil {
		return
	}

	sess.bind(nil, nil)
	a.leave(context.Background(), room, p.ID)
}

// leave removes the participant, notifies the room, and deletes the room when
// it empties. Calling it again for the same participant is a no-op.
func (a *App) leave(ctx context.Context, room *internalrooms.Room, participantID string) bool {
	p, remaining, ok := room.Remove(participantID)
	if !ok {
		return false
	}

	room.Broadcast(ctx, "participant-left", PayloadParticipantLeft{
		ParticipantID:    p.ID,
		ParticipantCount: remaining,
	})

	if remaining == 0 {
		a.registry.RemoveIfEmpty(room.ID)
	}

	return true
}
