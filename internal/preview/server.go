// Package preview serves a running animation over HTTP: frames and control
// over websockets, a rendered PNG of the current frame, and a QR code of the
// page so a phone can follow along.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Showmax/go-fqdn"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/internal/config"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/playback"
)

// Version can be set at build time via -ldflags.
var Version = "dev"

const writeTimeout = 200 * time.Millisecond

// Options configures a Server.
type Options struct {
	Preview     config.PreviewConfig
	BlueProp    string
	RedProp     string
	GridImage   string
	GridVisible bool
}

// OptionsFromConfig picks the preview settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Preview:     cfg.Preview,
		BlueProp:    cfg.Assets.BlueProp,
		RedProp:     cfg.Assets.RedProp,
		GridImage:   cfg.Assets.GridImage,
		GridVisible: cfg.Grid.Visible,
	}
}

// sendBuffer is how many frames may wait for a slow client before the
// oldest are dropped.
const sendBuffer = 4

type outFrame struct {
	version uint64
	data    []byte
}

// client owns one frames connection. Frames are queued by broadcast and
// written by writeLoop, so a slow reader never stalls the publisher.
type client struct {
	conn *websocket.Conn
	out  chan outFrame
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		out:  make(chan outFrame, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks. When the queue is full the oldest frame gives way.
func (c *client) enqueue(f outFrame) {
	for {
		select {
		case c.out <- f:
			return
		default:
		}
		select {
		case <-c.out:
		default:
		}
	}
}

// writeLoop writes queued frames until the client is closed. Frames older
// than the last one written are skipped.
func (c *client) writeLoop(log *zap.Logger) {
	var last uint64
	for {
		select {
		case <-c.done:
			return
		case f := <-c.out:
			if f.version != 0 && f.version <= last {
				continue
			}
			last = f.version
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, f.data); err != nil {
				log.Debug("write frame", zap.Error(err))
				c.close()
				return
			}
		}
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// Server is the preview HTTP server.
type Server struct {
	ctrl   *playback.Controller
	store  *playback.Store
	assets *assets.Manager
	opts   Options
	log    *zap.Logger
	start  time.Time

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]bool
	unsub   func()
}

// New creates a server publishing the snapshots held by store and applying
// control commands to ctrl.
func New(ctrl *playback.Controller, store *playback.Store, am *assets.Manager, opts Options) *Server {
	s := &Server{
		ctrl:     ctrl,
		store:    store,
		assets:   am,
		opts:     opts,
		log:      logger.Named("preview"),
		start:    time.Now(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*client]bool{},
	}
	s.unsub = store.Subscribe(s.broadcast)
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", s.handleFrames)
	mux.HandleFunc("/ws/control", s.handleControl)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/snapshot.png", s.handleSnapshot)
	mux.HandleFunc("/qr.png", s.handleQR)
	return withCORS(mux)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Preview.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("preview server listening",
			zap.String("addr", srv.Addr),
			zap.String("url", s.PublicURL()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Close unsubscribes from the store and drops every websocket client.
func (s *Server) Close() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	clients := s.clients
	s.clients = map[*client]bool{}
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	for c := range clients {
		c.close()
	}
}

// PublicURL returns the address clients should open. The configured public
// URL wins; otherwise it is built from the host's FQDN and the listen port.
func (s *Server) PublicURL() string {
	if s.opts.Preview.PublicURL != "" {
		return s.opts.Preview.PublicURL
	}

	host, err := fqdn.FqdnHostname()
	if err != nil || host == "" {
		host, _ = os.Hostname()
	}
	if host == "" {
		host = "localhost"
	}

	port := "80"
	if _, p, err := net.SplitHostPort(s.opts.Preview.Addr); err == nil && p != "" {
		port = p
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// Clients returns the number of connected frame clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("frames upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn)

	// Registering and queueing the current snapshot under one lock keeps
	// the first frame ahead of any broadcast.
	s.mu.Lock()
	s.clients[c] = true
	snap := s.store.Snapshot()
	if b, err := json.Marshal(snap); err == nil {
		c.enqueue(outFrame{version: snap.Version, data: b})
	}
	s.mu.Unlock()
	s.log.Debug("frames client connected", zap.String("remote", r.RemoteAddr))

	go c.writeLoop(s.log)
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			c.close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcast(snap playback.Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("encoding snapshot", zap.Error(err))
		return
	}

	f := outFrame{version: snap.Version, data: b}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.enqueue(f)
	}
}

// controlReply answers every message on the control socket.
type controlReply struct {
	OK       bool               `json:"ok"`
	Error    string             `json:"error,omitempty"`
	Snapshot *playback.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("control upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := s.applyControl(data)
		b, _ := json.Marshal(reply)
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (s *Server) applyControl(data []byte) controlReply {
	var cmd playback.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return controlReply{Error: "malformed command: " + err.Error()}
	}
	op, err := playback.ParseOp(string(cmd.Op))
	if err != nil {
		return controlReply{Error: err.Error()}
	}
	cmd.Op = op
	if err := s.ctrl.Apply(cmd); err != nil {
		return controlReply{Error: err.Error()}
	}
	s.log.Debug("control command", zap.String("op", string(cmd.Op)), zap.Float64("value", cmd.Value))

	snap := s.ctrl.Snapshot()
	return controlReply{OK: true, Snapshot: &snap}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
