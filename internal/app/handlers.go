package app

import (
	"context"
	"encoding/json"

	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"

	internalrooms "github.com/abhijeeth-pa/vredutech/internal/rooms"
)

type ActionHandler func(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error

func handleJoin(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	obj := EventJoin{}
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return errors.Wrapf(err, "Unmarshal %s", event.Data)
	}

	if obj.RoomID == "" || obj.ParticipantID == "" {
		return errors.Errorf("join requires roomId and participantId")
	}
	if !obj.Role.Valid() {
		return errors.Errorf("invalid role %q", obj.Role)
	}

	// A session that joins again moves rooms; the previous membership ends
	// with the usual leave side effects.
	if room, p := sess.current(); room != nil && p != nil {
		a.leave(ctx, room, p.ID)
	}

	p := internalrooms.NewParticipant(obj.ParticipantID, obj.Name, obj.Role, sess.out)

	var room *internalrooms.Room
	var count int
	for {
		room = a.registry.GetOrCreate(obj.RoomID)

		n, err := room.Add(p)
		if err == nil {
			count = n
			break
		}
		// Lost a race with room deletion; fetch a fresh room.
	}

	sess.bind(room, p)

	room.Broadcast(ctx, "participant-joined", PayloadParticipantJoined{
		ParticipantID:    p.ID,
		Name:             p.Name,
		Role:             p.Role,
		ParticipantCount: count,
	}, p.ID)

	sess.send(ctx, "participant-list", room.Roster())

	logger.Tf(ctx, "Join %v to %v ok", p, room)

	return nil
}

func handleTransformUpdate(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	room, p := sess.current()
	if room == nil || p == nil {
		return nil
	}

	obj := internalrooms.TransformUpdate{}
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return errors.Wrapf(err, "Unmarshal %s", event.Data)
	}

	// State mutation only. The broadcast loop picks this up on its next tick.
	room.UpdateTransforms(p.ID, obj)

	return nil
}

func handleMuteChanged(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	room, p := sess.current()
	if room == nil || p == nil {
		return nil
	}

	obj := EventMuteChanged{}
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return errors.Wrapf(err, "Unmarshal %s", event.Data)
	}

	if !room.SetMuted(p.ID, obj.IsMuted) {
		return nil
	}

	room.Broadcast(ctx, "participant-muted", PayloadParticipantMuted{
		ParticipantID: p.ID,
		IsMuted:       obj.IsMuted,
	})

	logger.Tf(ctx, "Mute %v = %v", p.ID, obj.IsMuted)

	return nil
}

func handleTeacherMuteAll(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	room, p := sess.current()
	if room == nil || p == nil {
		return nil
	}

	if p.Role != internalrooms.RoleTeacher {
		logger.Wf(ctx, "Drop teacher-mute-all from %v", p)
		return nil
	}

	room.MuteStudents()
	room.Broadcast(ctx, "all-students-muted", struct{}{})

	logger.Tf(ctx, "Teacher %v muted all students in %v", p.ID, room.ID)

	return nil
}

func handleTeacherSpotlight(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	room, p := sess.current()
	if room == nil || p == nil {
		return nil
	}

	if p.Role != internalrooms.RoleTeacher {
		logger.Wf(ctx, "Drop teacher-spotlight from %v", p)
		return nil
	}

	obj := EventSpotlight{}
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return errors.Wrapf(err, "Unmarshal %s", event.Data)
	}

	if !room.SetSpotlight(obj.TargetID, obj.IsSpotlighted) {
		return nil
	}

	room.Broadcast(ctx, "participant-spotlighted", PayloadParticipantSpotlighted{
		ParticipantID: obj.TargetID,
		IsSpotlighted: obj.IsSpotlighted,
	})

	logger.Tf(ctx, "Teacher %v spotlight %v = %v", p.ID, obj.TargetID, obj.IsSpotlighted)

	return nil
}

func handleTeacherKick(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	room, p := sess.current()
	if room == nil || p == nil {
		return nil
	}

	if p.Role != internalrooms.RoleTeacher {
		logger.Wf(ctx, "Drop teacher-kick from %v", p)
		return nil
	}

	obj := EventKick{}
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return errors.Wrapf(err, "Unmarshal %s", event.Data)
	}

	target, ok := room.Get(obj.TargetID)
	if !ok {
		return nil
	}

	// Tell the target first so its client can react before the connection
	// goes away, then run the normal leave path.
	message, err := json.Marshal(internalrooms.Outbound{Event: "kicked", Data: struct{}{}})
	if err != nil {
		return errors.Wrapf(err, "marshal")
	}
	target.Send(ctx, message)

	a.leave(ctx, room, obj.TargetID)

	logger.Tf(ctx, "Teacher %v kicked %v from %v", p.ID, obj.TargetID, room.ID)

	return nil
}

// handleSignal relays offer/answer/ICE payloads verbatim to one named
// recipient in the sender's room. A missing recipient is not an error:
// signaling a peer that already left is expected and harmless.
func handleSignal(
	ctx context.Context,
	a *App,
	sess *session,
	event Event,
) error {
	room, p := sess.current()
	if room == nil || p == nil {
		return nil
	}

	obj := EventSignal{}
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return errors.Wrapf(err, "Unmarshal %s", event.Data)
	}

	target, ok := room.Get(obj.ToID)
	if !ok {
		return nil
	}

	message, err := json.Marshal(internalrooms.Outbound{
		Event: event.Event,
		Data: PayloadSignal{
			FromID:  p.ID,
			Payload: obj.Payload,
		},
	})
	if err != nil {
		return errors.Wrapf(err, "marshal")
	}

	target.Send(ctx, message)

	logger.Tf(ctx, "Relay %v from %v to %v", event.Event, p.ID, obj.ToID)

	return nil
}
