// Package server streams scenario playback to remote renderers.
//
// Each WebSocket connection gets its own Session. The session plays the
// configured scenario on a private headless document, paced by a ticker
// at the scenario frame rate, and writes the resulting style patches as
// binary protocol frames.
//
// # Session Lifecycle
//
// On connect the server sends a Hello frame followed by a keyframe that
// restates every applied style. Every tick then produces one Styles frame
// (split into partial frames when large) and one Stats frame.
//
// The session runs two goroutines:
//   - readLoop: decodes control frames from the client (ping, pause, resume,
//     keyframe, close)
//   - playLoop: advances the player, writes frames and sends heartbeats
//
// When playback finishes the session either restarts it (Config.Loop) or
// sends a Close control frame and closes the connection.
//
// # Routes
//
//	GET /healthz     liveness probe
//	GET /scenario    the scenario being played, as JSON
//	GET /ws          WebSocket stream
//	GET /metrics     Prometheus metrics (Config.MetricsPath)
//
// # Example Usage
//
//	srv := server.New(sc, server.DefaultConfig(),
//	    server.WithMetrics(metrics, registry))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Server methods are safe for concurrent use. A session's document is only
// touched by its playLoop goroutine; writes to the connection are
// serialized by a mutex.
package server
