package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	merrors "github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/headless"
	"github.com/vango-dev/motion/pkg/protocol"
	"github.com/vango-dev/motion/pkg/telemetry"
)

// errPlaybackDone ends a session whose scenario finished without Loop.
var errPlaybackDone = stderrors.New("server: playback finished")

// Session plays the scenario for one WebSocket client.
type Session struct {
	id     string
	ctx    context.Context
	server *Server
	conn   *websocket.Conn
	config *Config
	logger *slog.Logger

	player   *headless.Player
	paused   bool
	controls chan protocol.ControlType

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	frames    atomic.Int64
}

func newSession(ctx context.Context, s *Server, id string, conn *websocket.Conn) (*Session, error) {
	sess := &Session{
		id:       id,
		ctx:      ctx,
		server:   s,
		conn:     conn,
		config:   s.config,
		logger:   s.logger.With("session_id", id),
		controls: make(chan protocol.ControlType, 16),
		done:     make(chan struct{}),
	}
	if err := sess.startPlayer(); err != nil {
		return nil, err
	}

	fps := uint16(sess.player.Recorder().Recording().FrameRate)
	hello := protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(&protocol.Hello{
		Version:   protocol.Version,
		SessionID: id,
		FrameRate: fps,
	}))
	if err := sess.write(hello); err != nil {
		return nil, err
	}
	if err := sess.sendKeyframe(); err != nil {
		return nil, err
	}
	return sess, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Frames returns the number of animation frames sent.
func (s *Session) Frames() int64 { return s.frames.Load() }

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		s.conn.Close()
		s.writeMu.Unlock()
	})
}

func (s *Session) startPlayer() error {
	opts := append([]headless.Option{headless.WithLogger(s.logger)}, s.server.docOpts...)
	if s.server.metrics != nil {
		opts = append(opts, headless.WithRecorder(s.server.metrics))
	}
	p, err := headless.NewPlayer(s.server.scenario, opts)
	if err != nil {
		return err
	}
	s.player = p
	return nil
}

// run blocks until the session ends.
func (s *Session) run() error {
	go s.readLoop()
	err := s.playLoop()
	s.Close()
	if err == errPlaybackDone {
		return nil
	}
	return err
}

// readLoop decodes control frames and hands them to playLoop.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		return nil
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.recordError("read")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			s.sendError(protocol.ErrInvalidFrame, err.Error(), false)
			continue
		}
		if frame.Type != protocol.FrameControl {
			s.logger.Warn("unexpected frame type", "type", frame.Type)
			s.sendError(protocol.ErrInvalidFrame, "unexpected "+frame.Type.String()+" frame", false)
			continue
		}
		ctl, err := protocol.DecodeControl(frame.Payload)
		if err != nil {
			s.logger.Warn("control decode error", "error", err)
			s.sendError(protocol.ErrInvalidFrame, err.Error(), false)
			continue
		}

		switch ctl.Type {
		case protocol.ControlPing:
			s.write(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(&protocol.Control{
				Type:      protocol.ControlPong,
				Timestamp: ctl.Timestamp,
			})))
		case protocol.ControlPong:
			s.logger.Debug("received pong")
		case protocol.ControlClose:
			s.logger.Info("client closing")
			return
		default:
			select {
			case s.controls <- ctl.Type:
			case <-s.done:
				return
			}
		}
	}
}

// playLoop advances playback and writes frames until the session ends.
func (s *Session) playLoop() error {
	heartbeat := time.NewTicker(s.config.HeartbeatInterval)
	defer heartbeat.Stop()

	var ticker *time.Ticker
	if s.config.Realtime {
		ticker = time.NewTicker(s.player.FrameDuration())
		defer ticker.Stop()
	}

	for {
		if !s.paused && ticker == nil {
			select {
			case <-s.done:
				return nil
			case ct := <-s.controls:
				if err := s.handleControl(ct); err != nil {
					return err
				}
				continue
			default:
			}
			if err := s.frame(); err != nil {
				return err
			}
			continue
		}

		var tick <-chan time.Time
		if !s.paused && ticker != nil {
			tick = ticker.C
		}
		select {
		case <-s.done:
			return nil
		case ct := <-s.controls:
			if err := s.handleControl(ct); err != nil {
				return err
			}
		case <-heartbeat.C:
			if err := s.ping(); err != nil {
				return err
			}
		case <-tick:
			if err := s.frame(); err != nil {
				return err
			}
		}
	}
}

func (s *Session) handleControl(ct protocol.ControlType) error {
	switch ct {
	case protocol.ControlPause:
		s.paused = true
		s.logger.Debug("playback paused")
	case protocol.ControlResume:
		s.paused = false
		s.logger.Debug("playback resumed")
	case protocol.ControlKeyframe:
		return s.sendKeyframe()
	}
	return nil
}

// frame plays one frame and writes its styles and stats.
func (s *Session) frame() error {
	sf, metrics, done, err := s.player.Advance()
	if err != nil {
		s.logger.Error("playback failed", "error", err)
		s.sendError(protocol.ErrServerError, merrors.FromError(err, "E160").FormatCompact(), true)
		return err
	}

	if sf != nil {
		for _, f := range protocol.StylesFrames(sf, 0) {
			if err := s.write(f); err != nil {
				return err
			}
		}
		stats := protocol.NewFrame(protocol.FrameStats, protocol.EncodeStats(&protocol.StatsFrame{
			Seq:                    sf.Seq,
			TotalNodes:             uint32(metrics.TotalNodes),
			ResolvedTargetDeltas:   uint32(metrics.ResolvedTargetDeltas),
			RecalculatedProjection: uint32(metrics.RecalculatedProjection),
			ActiveAnimations:       uint32(s.player.Document().Tree().ActiveAnimations()),
		}))
		if err := s.write(stats); err != nil {
			return err
		}
		s.frames.Add(1)
		if m := s.server.metrics; m != nil {
			m.FrameSent(protocol.FrameStyles.String(), len(sf.Patches))
			m.FrameSent(protocol.FrameStats.String(), 0)
		}
	}

	if !done {
		return nil
	}
	telemetry.SpanFromContext(s.ctx).AddEvent("playback finished")
	if s.config.Loop {
		s.logger.Debug("restarting playback")
		if err := s.startPlayer(); err != nil {
			return err
		}
		return s.sendKeyframe()
	}
	s.write(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(&protocol.Control{Type: protocol.ControlClose})))
	return errPlaybackDone
}

func (s *Session) sendKeyframe() error {
	kf := s.player.Recorder().Keyframe()
	for _, f := range protocol.StylesFrames(kf, protocol.FlagKeyframe) {
		if err := s.write(f); err != nil {
			return err
		}
	}
	if m := s.server.metrics; m != nil {
		m.FrameSent(protocol.FrameStyles.String(), len(kf.Patches))
	}
	return nil
}

func (s *Session) sendError(code protocol.ErrorCode, msg string, fatal bool) {
	s.write(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(&protocol.ErrorMessage{
		Code:    code,
		Message: msg,
		Fatal:   fatal,
	})))
}

func (s *Session) write(f *protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		s.logger.Debug("write error", "error", err)
		s.recordError("write")
		return err
	}
	return nil
}

func (s *Session) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	deadline := time.Now().Add(s.config.WriteTimeout)
	if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
		s.recordError("ping")
		return err
	}
	return nil
}

func (s *Session) recordError(kind string) {
	if m := s.server.metrics; m != nil {
		m.WebSocketError(kind)
	}
}
