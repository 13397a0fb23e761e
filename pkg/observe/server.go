// Package observe streams simulation frames to websocket clients and
// lets them pause and resume a running simulation.
package observe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"github.com/sdtraining/steer/pkg/sim"
	"github.com/sdtraining/steer/pkg/utils"
)

const (
	// CLIENT_MESSAGE_LIMIT is how many frames a client may fall behind
	// before it is disconnected.
	CLIENT_MESSAGE_LIMIT = 64
	writeTimeout         = 5 * time.Second
)

// Controls is what clients can do to the simulation.
type Controls interface {
	Pause()
	Resume()
	Paused() bool
}

type Server struct {
	controls   Controls
	frames     *utils.Topic[[]byte]
	limit      rate.Limit
	mux        *http.ServeMux
	httpServer *http.Server
}

var _ sim.Sink = (*Server)(nil)

// New creates a server sending each client at most maxFrameRate frames
// per second.
func New(controls Controls, maxFrameRate float64) *Server {
	server := &Server{
		controls: controls,
		frames:   utils.NewTopic[[]byte](),
		limit:    rate.Limit(maxFrameRate),
		mux:      http.NewServeMux(),
	}
	server.mux.HandleFunc("/ws", server.handleWS)
	server.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return server
}

func (server *Server) Clients() int {
	return server.frames.Len()
}

// WriteFrame publishes a frame to every connected client.
func (server *Server) WriteFrame(frame *sim.Frame) error {
	if server.frames.Len() == 0 {
		return nil
	}

	bytes, err := cbor.Marshal(Message{
		Op:     OpFrame,
		Paused: server.controls.Paused(),
		Frame:  frame,
	})
	if err != nil {
		return err
	}

	server.frames.Publish(bytes)
	return nil
}

func WriteTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Write(ctx, websocket.MessageBinary, msg)
}

func (server *Server) status() []byte {
	bytes, _ := cbor.Marshal(Message{
		Op:     OpStatus,
		Paused: server.controls.Paused(),
	})
	return bytes
}

func (server *Server) HandleClient(ctx context.Context, c *websocket.Conn, host string) error {
	session := utils.NewSession(ctx)
	defer session.Cancel()
	ctx = session.Ctx()

	closeSlow := func() {
		c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
		session.Cancel()
	}

	frames := server.frames.Subscribe(CLIENT_MESSAGE_LIMIT, closeSlow)
	defer frames.Done()

	logger := log.With().Str("host", host).Logger()
	logger.Info().Msg("observer joined")
	defer func() {
		logger.Info().Dur("uptime", session.Uptime()).Msg("observer left")
	}()

	if err := WriteTimeout(ctx, writeTimeout, c, server.status()); err != nil {
		return err
	}

	receive := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		for {
			typ, message, err := c.Read(ctx)
			if err != nil {
				readErr <- err
				return
			}
			if typ != websocket.MessageBinary {
				continue
			}
			select {
			case receive <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	limiter := rate.NewLimiter(server.limit, 1)

	for {
		select {
		case msg := <-receive:
			var command Command
			if err := cbor.Unmarshal(msg, &command); err != nil {
				logger.Warn().Err(err).Msg("invalid command")
				continue
			}

			switch command.Op {
			case OpPause:
				server.controls.Pause()
			case OpResume:
				server.controls.Resume()
			default:
				logger.Warn().Str("op", string(command.Op)).Msg("unknown command")
				continue
			}

			if err := WriteTimeout(ctx, writeTimeout, c, server.status()); err != nil {
				return err
			}
		case msg := <-frames.Recv():
			if !limiter.Allow() {
				continue
			}
			err := WriteTimeout(ctx, writeTimeout, c, msg)
			if err != nil {
				logger.Error().Msg("observer missed write timeout; disconnecting")
				return err
			}
		case err := <-readErr:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.mux.ServeHTTP(w, r)
}

func (server *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})

	if err != nil {
		log.Error().Err(err).Msg("error accepting observer connection")
		return
	}

	defer c.Close(websocket.StatusInternalError, "operational fault during relay")

	hostname := r.RemoteAddr

	original, ok := r.Header["X-Forwarded-For"]
	if ok {
		hostname = original[0]
	}

	err = server.HandleClient(r.Context(), c, hostname)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("observer connection failed")
		return
	}
}

// Serve listens on addr until the context ends.
func (server *Server) Serve(ctx context.Context, addr string) error {
	listen, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error().Err(err).Msg("failed to bind observer port")
		return err
	}

	log.Info().Msgf("observer listening on ws://%v/ws", listen.Addr())

	server.httpServer = &http.Server{
		Handler: server,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.httpServer.Shutdown(shutdownCtx)
	}()

	err = server.httpServer.Serve(listen)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
