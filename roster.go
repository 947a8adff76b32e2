package main

import (
	"slices"
	"strings"
)

const (
	team1 = 1
	team2 = 2
)

// Player is a room member. The display name is the stable identity across
// reconnects; ConnID is the ephemeral websocket connection ID and changes
// every time the same name rejoins. Two players in one room never share a
// name.
type Player struct {
	ConnID    string `json:"id"`
	Name      string `json:"name"`
	Team      int    `json:"team"` // 0 while unassigned
	Connected bool   `json:"connected"`
}

// roster tracks a room's players, their team assignments, and one
// monotonically increasing rotation index per team for describer selection.
type roster struct {
	players []*Player
	indices map[int]int
}

func newRoster() *roster {
	return &roster{indices: make(map[int]int)}
}

func (r *roster) byConn(connID string) *Player {
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *roster) byName(name string) *Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// upsert adds a player on first join by name, or re-associates the existing
// entry with a new connection ID on reconnect. Reports whether the name was
// already present.
func (r *roster) upsert(name, connID string) (*Player, bool) {
	if p := r.byName(name); p != nil {
		p.ConnID = connID
		p.Connected = true
		return p, true
	}

	p := &Player{ConnID: connID, Name: name, Connected: true}
	r.players = append(r.players, p)
	return p, false
}

func (r *roster) remove(connID string) *Player {
	for i, p := range r.players {
		if p.ConnID == connID {
			r.players = slices.Delete(r.players, i, i+1)
			return p
		}
	}
	return nil
}

// connectedOnTeam returns the team's currently connected players sorted by
// name, the deterministic order the rotation indexes into.
func (r *roster) connectedOnTeam(team int) []*Player {
	var members []*Player
	for _, p := range r.players {
		if p.Team == team && p.Connected {
			members = append(members, p)
		}
	}
	slices.SortFunc(members, func(a, b *Player) int {
		return strings.Compare(a.Name, b.Name)
	})
	return members
}

func (r *roster) connectedCount(team int) int {
	count := 0
	for _, p := range r.players {
		if p.Team == team && p.Connected {
			count++
		}
	}
	return count
}

// nextDescriber picks the team's describer at rotation index mod member
// count within the sorted connected members, then increments the index
// unconditionally. Fair round-robin for a stable roster; joins and leaves
// between turns may cause a skip or an early repeat, which is accepted.
// Returns nil, without consuming an index, when nobody is available.
func (r *roster) nextDescriber(team int) *Player {
	members := r.connectedOnTeam(team)
	if len(members) == 0 {
		return nil
	}

	p := members[r.indices[team]%len(members)]
	r.indices[team]++
	return p
}

func (r *roster) resetRotation() {
	r.indices = make(map[int]int)
}

// teamNames lists the given team's member names in sorted order, connected
// or not, for round summaries.
func (r *roster) teamNames(team int) []string {
	var names []string
	for _, p := range r.players {
		if p.Team == team {
			names = append(names, p.Name)
		}
	}
	slices.Sort(names)
	return names
}

// snapshot copies the player list for broadcasting.
func (r *roster) snapshot() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}
