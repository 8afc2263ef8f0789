package app

import (
	"errors"
	"sort"
	"sync"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrAlreadyJoined = errors.New("user already joined from another connection")

type clientEntry struct {
	Info   domain.Participant
	RoomID domain.RoomID
	Conn   core.SignalConnection
}

// Member is a point-in-time view of one room member, used for fan-out.
type Member struct {
	domain.Participant
	Conn core.SignalConnection
}

// Registry holds both the connection registry (userID -> connection) and the
// room index (roomID -> set of userIDs). A single lock guards both so that
// every mutation and every fan-out snapshot is taken against one state.
//
// Invariant: userID is in rooms[r] iff clients[userID].RoomID == r.
type Registry struct {
	mu      sync.RWMutex
	clients map[domain.UserID]*clientEntry
	rooms   map[domain.RoomID]map[domain.UserID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[domain.UserID]*clientEntry),
		rooms:   make(map[domain.RoomID]map[domain.UserID]struct{}),
	}
}

// Register binds userID to conn, overwriting any previous binding.
// Room membership is not touched.
func (r *Registry) Register(id domain.UserID, conn core.SignalConnection, info domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(id, conn, info)
}

func (r *Registry) register(id domain.UserID, conn core.SignalConnection, info domain.Participant) *clientEntry {
	info.UserID = id
	e := &clientEntry{Info: info, Conn: conn}
	if old, ok := r.clients[id]; ok {
		e.RoomID = old.RoomID
	}
	r.clients[id] = e
	return e
}

// Unregister drops the registry entry only; callers remove membership themselves.
func (r *Registry) Unregister(id domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

func (r *Registry) JoinRoom(room domain.RoomID, id domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joinRoom(room, id)
}

func (r *Registry) joinRoom(room domain.RoomID, id domain.UserID) {
	set, ok := r.rooms[room]
	if !ok {
		set = make(map[domain.UserID]struct{})
		r.rooms[room] = set
		log.Debug().Str("module", "app.registry").Str("room", room.String()).Msg("room created")
	}
	set[id] = struct{}{}
	if e, ok := r.clients[id]; ok {
		e.RoomID = room
	}
}

func (r *Registry) LeaveRoom(room domain.RoomID, id domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveRoom(room, id)
}

func (r *Registry) leaveRoom(room domain.RoomID, id domain.UserID) {
	set, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(r.rooms, room)
		log.Debug().Str("module", "app.registry").Str("room", room.String()).Msg("room deleted")
	}
	if e, ok := r.clients[id]; ok && e.RoomID == room {
		e.RoomID = ""
	}
}

// MembersOf returns the members of room at one instant, ordered by userID.
func (r *Registry) MembersOf(room domain.RoomID) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersOf(room, "")
}

func (r *Registry) membersOf(room domain.RoomID, except domain.UserID) []Member {
	set := r.rooms[room]
	out := make([]Member, 0, len(set))
	for id := range set {
		if id == except {
			continue
		}
		e, ok := r.clients[id]
		if !ok {
			continue
		}
		out = append(out, Member{Participant: e.Info, Conn: e.Conn})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (r *Registry) Lookup(id domain.UserID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.clients[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

// RoomOf reports the room id is currently a member of.
func (r *Registry) RoomOf(id domain.UserID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.clients[id]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) Rooms() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(r.rooms))
	for id, set := range r.rooms {
		out = append(out, domain.RoomInfo{ID: id, MemberCount: len(set)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Binding is where a user was attached before a join replaced it.
type Binding struct {
	Conn core.SignalConnection
	Room domain.RoomID
	// RoomMates is set only when the user moved to another room: the members
	// left behind, who must learn that the user is gone.
	RoomMates []Member
}

type JoinResult struct {
	// Others is every member of the room except the joiner, at the instant of the join.
	Others   []Member
	Previous *Binding
}

// Join registers p on conn and adds it to room under one lock hold.
// A user already bound to a different connection is replaced when replace
// is true and refused with ErrAlreadyJoined otherwise.
func (r *Registry) Join(conn core.SignalConnection, room domain.RoomID, p domain.Participant, replace bool) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res JoinResult
	if old, ok := r.clients[p.UserID]; ok {
		if old.Conn != conn && !replace {
			return res, ErrAlreadyJoined
		}
		// leaveRoom clears old.RoomID, so keep a copy.
		oldRoom := old.RoomID
		prev := &Binding{Room: oldRoom}
		if old.Conn != conn {
			prev.Conn = old.Conn
		}
		if oldRoom != "" && oldRoom != room {
			r.leaveRoom(oldRoom, p.UserID)
			prev.RoomMates = r.membersOf(oldRoom, p.UserID)
		}
		res.Previous = prev
	}

	r.register(p.UserID, conn, p)
	r.joinRoom(room, p.UserID)
	res.Others = r.membersOf(room, p.UserID)

	log.Info().
		Str("module", "app.registry").
		Str("user", p.UserID.String()).
		Str("room", room.String()).
		Int("others", len(res.Others)).
		Msg("joined")
	return res, nil
}

type LeaveResult struct {
	Removed   bool
	Room      domain.RoomID
	Remaining []Member
}

// Leave removes the user's registry entry and its room membership.
// room is the room named by the client; membership of the room the registry
// knows about is removed as well so both maps stay consistent.
func (r *Registry) Leave(id domain.UserID, room domain.RoomID) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room != "" {
		r.leaveRoom(room, id)
	}
	return r.remove(id, room)
}

// Disconnect is Leave for a closed connection: it only acts while id is
// still bound to conn, so a replaced or already cleaned up binding is left alone.
func (r *Registry) Disconnect(id domain.UserID, conn core.SignalConnection) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.clients[id]
	if !ok || e.Conn != conn {
		return LeaveResult{}
	}
	return r.remove(id, "")
}

func (r *Registry) remove(id domain.UserID, fallback domain.RoomID) LeaveResult {
	e, ok := r.clients[id]
	if !ok {
		return LeaveResult{}
	}
	room := e.RoomID
	if room == "" {
		room = fallback
	}
	if e.RoomID != "" {
		r.leaveRoom(e.RoomID, id)
	}
	delete(r.clients, id)
	log.Info().Str("module", "app.registry").Str("user", id.String()).Str("room", room.String()).Msg("removed")
	return LeaveResult{Removed: true, Room: room, Remaining: r.membersOf(room, id)}
}
