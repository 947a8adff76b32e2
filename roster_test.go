package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterUpsert(t *testing.T) {
	t.Parallel()

	r := newRoster()

	p, rejoined := r.upsert("alice", "conn-1")
	require.False(t, rejoined)
	assert.Equal(t, "conn-1", p.ConnID)
	assert.True(t, p.Connected)

	p.Team = team1
	p.Connected = false

	// Same name reconnects: connection ID is replaced, team survives.
	p2, rejoined := r.upsert("alice", "conn-2")
	require.True(t, rejoined)
	assert.Same(t, p, p2)
	assert.Equal(t, "conn-2", p2.ConnID)
	assert.Equal(t, team1, p2.Team)
	assert.True(t, p2.Connected)
	assert.Len(t, r.players, 1)
}

func TestRosterRemove(t *testing.T) {
	t.Parallel()

	r := newRoster()
	r.upsert("alice", "conn-1")
	r.upsert("bob", "conn-2")

	removed := r.remove("conn-1")
	require.NotNil(t, removed)
	assert.Equal(t, "alice", removed.Name)
	assert.Nil(t, r.byName("alice"))
	assert.NotNil(t, r.byName("bob"))

	assert.Nil(t, r.remove("conn-1"))
}

func TestRotationVisitsEachMemberOncePerCycle(t *testing.T) {
	t.Parallel()

	r := newRoster()
	// Joined out of alphabetical order on purpose.
	for _, name := range []string{"carol", "alice", "bob"} {
		p, _ := r.upsert(name, "conn-"+name)
		p.Team = team1
	}

	var selected []string
	for i := 0; i < 6; i++ {
		selected = append(selected, r.nextDescriber(team1).Name)
	}

	assert.Equal(t, []string{"alice", "bob", "carol", "alice", "bob", "carol"}, selected)
}

func TestRotationOnlyConsidersConnectedMembers(t *testing.T) {
	t.Parallel()

	r := newRoster()
	for _, name := range []string{"alice", "bob", "carol"} {
		p, _ := r.upsert(name, "conn-"+name)
		p.Team = team1
	}

	assert.Equal(t, "alice", r.nextDescriber(team1).Name)

	// bob drops; the index keeps rolling over whoever remains.
	r.byName("bob").Connected = false
	assert.Equal(t, "carol", r.nextDescriber(team1).Name)
	assert.Equal(t, "alice", r.nextDescriber(team1).Name)
}

func TestRotationEmptyTeam(t *testing.T) {
	t.Parallel()

	r := newRoster()
	p, _ := r.upsert("alice", "conn-1")
	p.Team = team1
	p.Connected = false

	assert.Nil(t, r.nextDescriber(team1))
	// A failed selection must not consume an index.
	assert.Equal(t, 0, r.indices[team1])
}

func TestRotationResetStartsOver(t *testing.T) {
	t.Parallel()

	r := newRoster()
	for _, name := range []string{"alice", "bob"} {
		p, _ := r.upsert(name, "conn-"+name)
		p.Team = team1
	}

	assert.Equal(t, "alice", r.nextDescriber(team1).Name)
	assert.Equal(t, "bob", r.nextDescriber(team1).Name)

	r.resetRotation()
	assert.Equal(t, "alice", r.nextDescriber(team1).Name)
}

func TestTeamNamesSortedIncludesDisconnected(t *testing.T) {
	t.Parallel()

	r := newRoster()
	for _, name := range []string{"dave", "bob"} {
		p, _ := r.upsert(name, "conn-"+name)
		p.Team = team2
	}
	r.byName("dave").Connected = false

	assert.Equal(t, []string{"bob", "dave"}, r.teamNames(team2))
}
