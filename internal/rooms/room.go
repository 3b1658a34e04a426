package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ossrs/go-oryx-lib/errors"
)

// ErrRoomClosed is returned by Add when the room was already deleted from the
// registry. Callers re-fetch a fresh room and retry.
var ErrRoomClosed = errors.New("room is closed")

// Room is a named, ephemeral group of participants sharing transform and
// presence state. All access to the participant table goes through methods
// that take the room lock; snapshots are taken under the lock and fan-out
// happens outside it.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu           sync.RWMutex
	hostID       string
	closed       bool
	participants map[string]*Participant
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		CreatedAt:    time.Now(),
		participants: make(map[string]*Participant),
	}
}

func (r *Room) String() string {
	return fmt.Sprintf("room=%v, participants=%v", r.ID, r.Count())
}

// Add inserts a participant, overwriting any prior entry with the same id
// (a rejoin replaces the stale entry). The first teacher to join becomes the
// room host; the host is never reassigned afterwards, even if that teacher
// leaves.
func (r *Room) Add(p *Participant) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrRoomClosed
	}

	r.participants[p.ID] = p

	if p.Role == RoleTeacher && r.hostID == "" {
		r.hostID = p.ID
	}

	return len(r.participants), nil
}

// Remove deletes the participant and reports the remaining count. Removing an
// absent id is a no-op, which makes double-leave harmless.
func (r *Room) Remove(id string) (*Participant, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return nil, len(r.participants), false
	}

	delete(r.participants, id)
	return p, len(r.participants), true
}

func (r *Room) Get(id string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[id]
	return p, ok
}

func (r *Room) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.participants)
}

func (r *Room) HostID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.hostID
}

func (r *Room) SetMuted(id string, muted bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return false
	}

	p.IsMuted = muted
	return true
}

// MuteStudents sets isMuted on every student participant. Teachers are left
// untouched.
func (r *Room) MuteStudents() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	muted := 0
	for _, p := range r.participants {
		if p.Role == RoleStudent {
			p.IsMuted = true
			muted++
		}
	}

	return muted
}

func (r *Room) SetSpotlight(id string, spotlighted bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return false
	}

	p.IsSpotlighted = spotlighted
	return true
}

// UpdateTransforms applies a last-write-wins pose update: present parts
// replace the stored ones, absent parts stay. Any update also refreshes the
// participant's heartbeat.
func (r *Room) UpdateTransforms(id string, update TransformUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return false
	}

	if update.Head != nil {
		p.Transforms.Head = *update.Head
	}
	if update.LeftHand != nil {
		p.Transforms.LeftHand = *update.LeftHand
	}
	if update.RightHand != nil {
		p.Transforms.RightHand = *update.RightHand
	}
	p.LastHeartbeat = time.Now()

	return true
}

// TransformSnapshot copies the current id to pose mapping for one broadcast
// tick.
func (r *Room) TransformSnapshot() map[string]TransformSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]TransformSet, len(r.participants))
	for id, p := range r.participants {
		snapshot[id] = p.Transforms
	}

	return snapshot
}

// Roster copies the participant list for the private reply to a joiner.
func (r *Room) Roster() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := make([]Info, 0, len(r.participants))
	for _, p := range r.participants {
		roster = append(roster, Info{
			ID:            p.ID,
			Name:          p.Name,
			Role:          p.Role,
			IsMuted:       p.IsMuted,
			IsSpotlighted: p.IsSpotlighted,
			Head:          p.Transforms.Head,
			LeftHand:      p.Transforms.LeftHand,
			RightHand:     p.Transforms.RightHand,
		})
	}

	return roster
}

// Stale lists the ids of participants whose last heartbeat predates the
// cutoff.
func (r *Room) Stale(cutoff time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []string
	for id, p := range r.participants {
		if p.LastHeartbeat.Before(cutoff) {
			stale = append(stale, id)
		}
	}

	return stale
}

// Broadcast sends one event to every participant except the listed ids,
// blocking per recipient until queued or the context ends.
func (r *Room) Broadcast(ctx context.Context, event string, data any, except ...string) {
	message, err := json.Marshal(Outbound{Event: event, Data: data})
	if err != nil {
		return
	}

	for _, p := range r.recipients(except...) {
		p.Send(ctx, message)
	}
}

// BroadcastLossy sends one event to every participant without blocking,
// dropping it for recipients whose outbound buffer is full.
func (r *Room) BroadcastLossy(event string, data any) {
	message, err := json.Marshal(Outbound{Event: event, Data: data})
	if err != nil {
		return
	}

	for _, p := range r.recipients() {
		p.TrySend(message)
	}
}

func (r *Room) recipients(except ...string) []*Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipients := make([]*Participant, 0, len(r.participants))
	for id, p := range r.participants {
		if excluded(id, except) {
			continue
		}
		recipients = append(recipients, p)
	}

	return recipients
}

func excluded(id string, except []string) bool {
	for _, e := range except {
		if e == id {
			return true
		}
	}
	return false
}

// closeIfEmpty marks the room closed when it has no participants, so a join
// racing with deletion either lands before the close or gets ErrRoomClosed
// and retries against a fresh room.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.participants) > 0 {
		return false
	}

	r.closed = true
	return true
}
