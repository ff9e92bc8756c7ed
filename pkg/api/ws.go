package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is pushed to admin UIs when navigation inputs change.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`               // e.g. navigation_changed
	TenantID  string      `json:"tenantId,omitempty"` // empty for platform-wide changes
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const EventNavigationChanged = "navigation_changed"

type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteJSON(ev)
}

// Hub maintains admin UI websocket connections keyed by tenant ID.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[string]map[*subscriber]struct{}
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: map[string]map[*subscriber]struct{}{},
		log:  log,
	}
}

// HandleWS upgrades and subscribes the connection; expects ?tenantId=xxx
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, tenantID string) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.String("tenant", tenantID), zap.Error(err))
		return
	}
	sub := &subscriber{conn: c}
	h.mu.Lock()
	if h.subs[tenantID] == nil {
		h.subs[tenantID] = map[*subscriber]struct{}{}
	}
	h.subs[tenantID][sub] = struct{}{}
	h.mu.Unlock()
	h.log.Info("ui subscriber connected", zap.String("tenant", tenantID))
	go h.readLoop(sub)
}

// Broadcast sends ev to the tenant's subscribers, or to everyone when
// tenantID is empty.
func (h *Hub) Broadcast(tenantID string, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.TenantID = tenantID
	h.mu.RLock()
	var targets []*subscriber
	for tid, set := range h.subs {
		if tenantID != "" && tid != tenantID {
			continue
		}
		for s := range set {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()
	for _, s := range targets {
		if err := s.send(ev); err != nil {
			h.log.Debug("ws send failed", zap.String("tenant", tenantID), zap.Error(err))
			go h.closeSub(s)
		}
	}
}

// Subscribers reports how many connections a tenant currently has.
func (h *Hub) Subscribers(tenantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[tenantID])
}

// readLoop only detects the peer going away; clients send nothing useful.
func (h *Hub) readLoop(s *subscriber) {
	defer h.closeSub(s)
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) closeSub(s *subscriber) {
	_ = s.conn.Close()
	h.mu.Lock()
	defer h.mu.Unlock()
	for tid, set := range h.subs {
		if _, ok := set[s]; !ok {
			continue
		}
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, tid)
		}
		h.log.Info("ui subscriber disconnected", zap.String("tenant", tid))
	}
}
