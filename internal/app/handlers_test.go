package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalrooms "github.com/abhijeeth-pa/vredutech/internal/rooms"
)

func TestJoinRepliesWithRoster(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	join(a, alice, "r1", "alice", "teacher")

	events := drain(alice)
	require.Equal(t, []string{"participant-list"}, eventNames(events))

	roster := []internalrooms.Info{}
	require.NoError(t, json.Unmarshal(events[0].Data, &roster))
	require.Len(t, roster, 1)

	// The joiner appears in its own list with freshly defaulted transforms.
	assert.Equal(t, "alice", roster[0].ID)
	assert.Equal(t, internalrooms.RoleTeacher, roster[0].Role)
	assert.Equal(t, [3]float64{0, 1.6, 0}, roster[0].Head.Pos)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, roster[0].Head.Rot)

	bob := newSession()
	join(a, bob, "r1", "bob", "student")

	// Existing members get the notification; the joiner does not.
	aliceEvents := drain(alice)
	require.Equal(t, []string{"participant-joined"}, eventNames(aliceEvents))

	joined := PayloadParticipantJoined{}
	require.NoError(t, json.Unmarshal(aliceEvents[0].Data, &joined))
	assert.Equal(t, "bob", joined.ParticipantID)
	assert.Equal(t, internalrooms.RoleStudent, joined.Role)
	assert.Equal(t, 2, joined.ParticipantCount)

	bobEvents := drain(bob)
	require.Equal(t, []string{"participant-list"}, eventNames(bobEvents))

	roster = []internalrooms.Info{}
	require.NoError(t, json.Unmarshal(bobEvents[0].Data, &roster))
	assert.Len(t, roster, 2)

	room, ok := a.registry.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "alice", room.HostID())
}

func TestTeacherMuteAll(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	drain(alice)
	drain(bob)

	send(a, alice, "teacher-mute-all", `{}`)

	room, ok := a.registry.Get("r1")
	require.True(t, ok)

	teacher, _ := room.Get("alice")
	student, _ := room.Get("bob")
	assert.False(t, teacher.IsMuted)
	assert.True(t, student.IsMuted)

	// Every member receives exactly one all-students-muted event.
	assert.Equal(t, []string{"all-students-muted"}, eventNames(drain(alice)))
	assert.Equal(t, []string{"all-students-muted"}, eventNames(drain(bob)))
}

func TestTeacherActionsFromStudentDropped(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	drain(alice)
	drain(bob)

	send(a, bob, "teacher-mute-all", `{}`)
	send(a, bob, "teacher-spotlight", `{"targetId":"alice","isSpotlighted":true}`)
	send(a, bob, "teacher-kick", `{"targetId":"alice"}`)

	room, ok := a.registry.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 2, room.Count())

	teacher, _ := room.Get("alice")
	assert.False(t, teacher.IsMuted)
	assert.False(t, teacher.IsSpotlighted)

	// No observable state change means no broadcast either.
	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(bob))
}

func TestMuteChangedBroadcastsToAll(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	drain(alice)
	drain(bob)

	send(a, bob, "mute-changed", `{"isMuted":true}`)

	// Including the requester.
	for _, sess := range []*session{alice, bob} {
		events := drain(sess)
		require.Equal(t, []string{"participant-muted"}, eventNames(events))

		muted := PayloadParticipantMuted{}
		require.NoError(t, json.Unmarshal(events[0].Data, &muted))
		assert.Equal(t, "bob", muted.ParticipantID)
		assert.True(t, muted.IsMuted)
	}
}

func TestTeacherSpotlight(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	drain(alice)
	drain(bob)

	send(a, alice, "teacher-spotlight", `{"targetId":"bob","isSpotlighted":true}`)

	room, ok := a.registry.Get("r1")
	require.True(t, ok)
	student, _ := room.Get("bob")
	assert.True(t, student.IsSpotlighted)

	for _, sess := range []*session{alice, bob} {
		events := drain(sess)
		require.Equal(t, []string{"participant-spotlighted"}, eventNames(events))

		spotlight := PayloadParticipantSpotlighted{}
		require.NoError(t, json.Unmarshal(events[0].Data, &spotlight))
		assert.Equal(t, "bob", spotlight.ParticipantID)
		assert.True(t, spotlight.IsSpotlighted)
	}

	// A missing target changes nothing and stays silent.
	send(a, alice, "teacher-spotlight", `{"targetId":"ghost","isSpotlighted":true}`)
	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(bob))
}

func TestTeacherKick(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	carol := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	join(a, carol, "r1", "carol", "student")
	drain(alice)
	drain(bob)
	drain(carol)

	send(a, alice, "teacher-kick", `{"targetId":"bob"}`)

	room, ok := a.registry.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 2, room.Count())

	// The target hears it directly before being removed; the rest see the
	// normal leave.
	assert.Equal(t, []string{"kicked"}, eventNames(drain(bob)))
	assert.Equal(t, []string{"participant-left"}, eventNames(drain(alice)))
	assert.Equal(t, []string{"participant-left"}, eventNames(drain(carol)))

	// Kicking a ghost is silent.
	send(a, alice, "teacher-kick", `{"targetId":"ghost"}`)
	assert.Empty(t, drain(alice))
}

func TestSignalRelayTargetsOneRecipient(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	carol := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	join(a, carol, "r1", "carol", "student")
	drain(alice)
	drain(bob)
	drain(carol)

	for _, kind := range []string{"signal-offer", "signal-answer", "signal-ice"} {
		send(a, alice, kind, `{"toId":"bob","payload":{"sdp":"v=0"}}`)

		events := drain(bob)
		require.Equal(t, []string{kind}, eventNames(events))

		relayed := PayloadSignal{}
		require.NoError(t, json.Unmarshal(events[0].Data, &relayed))
		assert.Equal(t, "alice", relayed.FromID)
		assert.JSONEq(t, `{"sdp":"v=0"}`, string(relayed.Payload))

		// Never broadcast, never echoed.
		assert.Empty(t, drain(alice))
		assert.Empty(t, drain(carol))
	}
}

func TestSignalToDepartedPeerDropped(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	join(a, alice, "r1", "alice", "teacher")
	drain(alice)

	send(a, alice, "signal-offer", `{"toId":"gone","payload":{"sdp":"v=0"}}`)

	assert.Empty(t, drain(alice))
}

func TestTransformUpdateBeforeJoinDropped(t *testing.T) {
	a := newTestApp()
	sess := newSession()

	send(a, sess, "transform-update", `{"head":{"pos":[1,2,3],"rot":[0,0,0,1]}}`)

	assert.Zero(t, a.registry.Len())
	assert.Empty(t, drain(sess))
}

func TestTransformUpdateMutatesWithoutBroadcast(t *testing.T) {
	a := newTestApp()

	alice := newSession()
	bob := newSession()
	join(a, alice, "r1", "alice", "teacher")
	join(a, bob, "r1", "bob", "student")
	drain(alice)
	drain(bob)

	send(a, alice, "transform-update", `{"head":{"pos":[1,2,3],"rot":[0,1,0,0]}}`)

	room, ok := a.registry.Get("r1")
	require.True(t, ok)
	p, _ := room.Get("alice")
	assert.Equal(t, [3]float64{1, 2, 3}, p.Transforms.Head.Pos)

	// Updates only mutate state; nothing goes out until the next tick.
	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(bob))
}
