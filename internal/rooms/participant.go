package rooms

import (
	"context"
	"fmt"
	"time"
)

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// Participant is one room member. It is owned by its room: every field
// mutation happens under the room lock, and no participant exists outside a
// room.
type Participant struct {
	Out           chan []byte
	ID            string
	Name          string
	Role          Role
	IsMuted       bool
	IsSpotlighted bool
	JoinedAt      time.Time
	LastHeartbeat time.Time
	Transforms    TransformSet
}

func NewParticipant(id, name string, role Role, out chan []byte) *Participant {
	now := time.Now()

	return &Participant{
		Out:           out,
		ID:            id,
		Name:          name,
		Role:          role,
		JoinedAt:      now,
		LastHeartbeat: now,
		Transforms:    DefaultTransforms(),
	}
}

func (p *Participant) String() string {
	return fmt.Sprintf("id=%v, role=%v", p.ID, p.Role)
}

// Send queues one encoded event for this participant's connection, giving up
// when the context ends.
func (p *Participant) Send(ctx context.Context, message []byte) bool {
	select {
	case <-ctx.Done():
		return false
	case p.Out <- message:
		return true
	}
}

// TrySend queues without blocking, dropping the message when the connection's
// outbound buffer is full. The broadcast tick uses this so one stalled
// connection cannot delay a whole room.
func (p *Participant) TrySend(message []byte) bool {
	select {
	case p.Out <- message:
		return true
	default:
		return false
	}
}

// Info is the participant-list representation of a room member.
type Info struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	IsMuted       bool      `json:"isMuted"`
	IsSpotlighted bool      `json:"isSpotlighted"`
	Head          Transform `json:"head"`
	LeftHand      Transform `json:"leftHand"`
	RightHand     Transform `json:"rightHand"`
}
