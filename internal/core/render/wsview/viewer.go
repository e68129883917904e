// Package wsview is a render backend that streams scene snapshots to
// browsers over websocket and accepts input events back from them.
package wsview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/helium/internal/core/input"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Viewer keeps the scene in a headless backend and pushes a frame to every
// connected client on Render.
type Viewer struct {
	*render.Headless

	logger  log.Log
	onInput func(input.Event)

	mu      sync.Mutex
	clients map[*client]struct{}
}

var _ render.Backend = (*Viewer)(nil)

// client owns one connection. Its writer goroutine is the only one that
// writes data frames to conn.
type client struct {
	conn *websocket.Conn
	// Holds at most the newest undelivered frame.
	send chan render.Frame
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan render.Frame, 1),
		done: make(chan struct{}),
	}
}

// offer queues frame, replacing a frame the writer has not picked up yet.
// Callers hold Viewer.mu, so there is a single producer.
func (c *client) offer(frame render.Frame) {
	select {
	case c.send <- frame:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func New(surface render.SurfaceConfig, logger log.Log) *Viewer {
	return &Viewer{
		Headless: render.NewHeadless(surface),
		logger:   logger.With(log.String("component", "wsview")),
		clients:  make(map[*client]struct{}),
	}
}

// OnInput sets the handler for events sent by clients. It must be set before
// the viewer starts serving.
func (v *Viewer) OnInput(fn func(input.Event)) { v.onInput = fn }

func (v *Viewer) Clients() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.clients)
}

// Render never waits on the network: a client that falls behind skips
// frames and only ever receives the latest one.
func (v *Viewer) Render() error {
	if err := v.Headless.Render(); err != nil {
		return err
	}
	frame := v.Snapshot()

	v.mu.Lock()
	for c := range v.clients {
		c.offer(frame)
	}
	v.mu.Unlock()
	return nil
}

func (v *Viewer) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				v.logger.Debug("Dropping viewer client",
					log.String("remote", c.conn.RemoteAddr().String()),
					log.Error(err),
				)
				v.drop(c)
				return
			}
		}
	}
}

// ServeHTTP upgrades the request, queues the current frame, and then reads
// input events until the client goes away.
func (v *Viewer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Warn("Viewer upgrade failed", log.Error(err))
		return
	}

	c := newClient(conn)
	v.mu.Lock()
	c.offer(v.Snapshot())
	v.clients[c] = struct{}{}
	v.mu.Unlock()

	go v.writeLoop(c)

	v.logger.Info("Viewer connected", log.String("remote", conn.RemoteAddr().String()))
	defer v.drop(c)

	for {
		var ev input.Event
		if err = conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				v.logger.Debug("Viewer read failed", log.Error(err))
			}
			return
		}
		if v.onInput != nil {
			v.onInput(ev)
		}
	}
}

func (v *Viewer) drop(c *client) {
	v.mu.Lock()
	delete(v.clients, c)
	v.mu.Unlock()
	c.close()
}

// Close disconnects every client.
func (v *Viewer) Close() error {
	v.mu.Lock()
	clients := make([]*client, 0, len(v.clients))
	for c := range v.clients {
		clients = append(clients, c)
		delete(v.clients, c)
	}
	v.mu.Unlock()

	var errs []error
	for _, c := range clients {
		// WriteControl may run concurrently with the writer goroutine.
		errs = append(errs, c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(writeWait)))
		c.close()
	}
	return errors.Join(errs...)
}

// ListenAndServe serves the viewer on addr at /ws until ctx is done.
func (v *Viewer) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", v)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		v.logger.Info("Viewer listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = v.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
