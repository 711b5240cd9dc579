// Package observer streams match reports to read-only websocket spectators.
// Spectators never feed anything back into the match.
package observer

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"paddlesim/internal/protocol"
)

const (
	subscriberBuffer = 256
	backlogLimit     = 8192
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 5 * time.Second
)

// Hub fans published messages out to every subscribed connection. Publish
// never blocks on a slow spectator; its connection is dropped instead.
type Hub struct {
	log *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu       sync.Mutex
	match    protocol.MatchInfo
	backlog  [][]byte
	subs     map[string]chan []byte
	finished bool
	closed   bool
}

func NewHub(match protocol.MatchInfo, logger *log.Logger) *Hub {
	return &Hub{
		log:   logger,
		match: match,
		subs:  map[string]chan []byte{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only
		},
	}
}

// Publish encodes msg and queues it for every subscriber.
func (h *Hub) Publish(msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("observer: encode: %w", err)
	}
	base, err := protocol.DecodeBase(b)
	if err != nil {
		return fmt.Errorf("observer: encode: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	if base.Type == protocol.TypeFinished {
		h.finished = true
	}
	if len(h.backlog) < backlogLimit {
		h.backlog = append(h.backlog, b)
	}
	for sid, ch := range h.subs {
		select {
		case ch <- b:
		default:
			h.logf("observer %s: falling behind, dropping", sid)
			close(ch)
			delete(h.subs, sid)
		}
	}
	return nil
}

// Subscribers is the number of live spectator connections.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription. Further publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sid, ch := range h.subs {
		close(ch)
		delete(h.subs, sid)
	}
}

func (h *Hub) subscribe(fromStart bool) (string, [][]byte, chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", nil, nil, false
	}
	sid := fmt.Sprintf("O%d", h.nextID.Add(1))
	var replay [][]byte
	if fromStart {
		replay = append(replay, h.backlog...)
	}
	ch := make(chan []byte, subscriberBuffer)
	h.subs[sid] = ch
	return sid, replay, ch, true
}

func (h *Hub) unsubscribe(sid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[sid]; ok {
		close(ch)
		delete(h.subs, sid)
	}
}

func (h *Hub) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		h.mu.Lock()
		resp := protocol.BootstrapResponse{
			ProtocolVersion: protocol.Version,
			Match:           h.match,
			Published:       len(h.backlog),
			Finished:        h.finished,
		}
		h.mu.Unlock()

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (h *Hub) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub protocol.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != protocol.TypeSubscribe {
			h.reject(conn, protocol.ErrProtoBadRequest, "expected SUBSCRIBE")
			return
		}
		if sub.ProtocolVersion != protocol.Version {
			h.reject(conn, protocol.ErrProtoVersion, "unsupported protocol version")
			return
		}

		sid, replay, out, ok := h.subscribe(sub.FromStart)
		if !ok {
			h.reject(conn, protocol.ErrBusy, "stream closed")
			return
		}
		defer h.unsubscribe(sid)
		h.logf("observer %s subscribed from %s", sid, r.RemoteAddr)

		h.mu.Lock()
		hello, err := json.Marshal(protocol.HelloMsg{
			Type:            protocol.TypeHello,
			ProtocolVersion: protocol.Version,
			SessionID:       sid,
			Match:           h.match,
		})
		h.mu.Unlock()
		if err != nil {
			return
		}

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			write := func(b []byte) error {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				return conn.WriteMessage(websocket.TextMessage, b)
			}
			if err := write(hello); err != nil {
				writeErr <- err
				return
			}
			for _, b := range replay {
				if err := write(b); err != nil {
					writeErr <- err
					return
				}
			}
			for b := range out {
				if err := write(b); err != nil {
					writeErr <- err
					return
				}
			}
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
			writeErr <- nil
		}()

		// Reader loop: spectators have nothing to say, but reading surfaces
		// the close frame.
		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				_ = conn.SetReadDeadline(time.Time{})
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		select {
		case <-writeErr:
		case <-readDone:
		}
		h.logf("observer %s left", sid)
	}
}

func (h *Hub) reject(conn *websocket.Conn, code, message string) {
	b, _ := json.Marshal(protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = conn.WriteMessage(websocket.TextMessage, b)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message), time.Now().Add(time.Second))
}

func (h *Hub) logf(format string, args ...any) {
	if h.log != nil {
		h.log.Printf(format, args...)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
