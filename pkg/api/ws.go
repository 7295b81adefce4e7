package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/fiszki/pkg/realtime"
	"github.com/rubiojr/fiszki/pkg/search"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsReadLimit  = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleSearchWS serves live search. Each text frame carries a
// SearchRequest; results are sent once the input has been stable for the
// debounce delay, and only for the latest query. After a dataset reload the
// latest query is searched again.
func (s *Server) HandleSearchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		s.logger.Warnf("websocket upgrade: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := &liveSession{server: s, conn: conn}
	sess.run(ctx)
}

type liveSession struct {
	server  *Server
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (l *liveSession) write(msg LiveMessage) error {
	data, err := msg.encode()
	if err != nil {
		return err
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if err := l.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return l.conn.WriteMessage(websocket.TextMessage, data)
}

func (l *liveSession) run(ctx context.Context) {
	s := l.server
	defer func() {
		if err := l.conn.Close(); err != nil {
			s.logger.Debugf("closing websocket: %v", err)
		}
	}()

	debouncer := realtime.NewDebouncer(s.debounce,
		func(q string) search.Results {
			return s.search.Search(ctx, q, s.Corpus())
		},
		func(seq uint64, q string, res search.Results) {
			if err := l.write(LiveMessage{Type: MessageResults, Seq: seq, Query: q, Results: &res}); err != nil {
				s.logger.Debugf("writing live results: %v", err)
			}
		},
	)
	defer debouncer.Stop()

	if err := l.write(LiveMessage{Type: MessageInit, DebounceMs: s.debounce.Milliseconds()}); err != nil {
		s.logger.Debugf("writing init message: %v", err)
		return
	}

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	done := make(chan struct{})
	defer close(done)
	go l.pump(events, done, debouncer)

	l.conn.SetReadLimit(wsReadLimit)
	_ = l.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var req SearchRequest
		if err := l.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugf("live search connection closed: %v", err)
			}
			return
		}
		// Any frame counts as activity.
		_ = l.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		seq := debouncer.Submit(req.Query)
		s.logger.Debugf("live query %d: %q", seq, req.Query)
	}
}

// pump forwards reload events and keeps the connection alive with pings.
func (l *liveSession) pump(events <-chan realtime.Event, done <-chan struct{}, debouncer *realtime.Debouncer[search.Results]) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := l.write(LiveMessage{Type: MessageReload, Sizes: ev.Sizes}); err != nil {
				l.server.logger.Debugf("writing reload notice: %v", err)
				continue
			}
			debouncer.Resubmit()
		case <-ticker.C:
			if err := l.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				l.server.logger.Debugf("ping failed: %v", err)
				return
			}
		}
	}
}
