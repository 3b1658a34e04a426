package app

import (
	"encoding/json"

	internalrooms "github.com/abhijeeth-pa/vredutech/internal/rooms"
)

// Event is the envelope for every client-to-server message.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type EventJoin struct {
	RoomID        string             `json:"roomId"`
	ParticipantID string             `json:"participantId"`
	Name          string             `json:"name"`
	Role          internalrooms.Role `json:"role"`
}

type EventMuteChanged struct {
	IsMuted bool `json:"isMuted"`
}

type EventSpotlight struct {
	TargetID      string `json:"targetId"`
	IsSpotlighted bool   `json:"isSpotlighted"`
}

type EventKick struct {
	TargetID string `json:"targetId"`
}

type EventSignal struct {
	ToID    string          `json:"toId"`
	Payload json.RawMessage `json:"payload"`
}

type PayloadParticipantJoined struct {
	ParticipantID    string             `json:"participantId"`
	Name             string             `json:"name"`
	Role             internalrooms.Role `json:"role"`
	ParticipantCount int                `json:"participantCount"`
}

type PayloadParticipantLeft struct {
	ParticipantID    string `json:"participantId"`
	ParticipantCount int    `json:"participantCount"`
}

type PayloadParticipantMuted struct {
	ParticipantID string `json:"participantId"`
	IsMuted       bool   `json:"isMuted"`
}

type PayloadParticipantSpotlighted struct {
	ParticipantID string `json:"participantId"`
	IsSpotlighted bool   `json:"isSpotlighted"`
}

type PayloadSignal struct {
	FromID  string          `json:"fromId"`
	Payload json.RawMessage `json:"payload"`
}
