// Taboo room engine
//
// Players join a room by code and split into two teams. Each turn, one
// "describer" sees five secret words (one per category) and teammates
// submit free-text guesses, scored by normalized edit distance. Exact
// matches score points; near misses only produce "close" feedback.
//
// Features:
// - Room codes generated server-side, language chosen at creation
// - Host determined by the name recorded at room creation
// - Reconnection by display name, with a synchronized resume snapshot
// - Deterministic per-team describer rotation (sorted names, rolling index)
// - Per-category word pools drawn without replacement, refilled on exhaustion
// - Countdown per turn with cancellable timer; all turn-ending paths idempotent
// - Opposing-team guesses are broadcast with similarity zeroed to avoid leaks
// - Host tools: team assignment, kick, stuck-describer removal, full reset
// - Rooms auto-reaped after a configurable idle timeout

package main

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

type roomStatus string

const (
	statusLobby        roomStatus = "lobby"
	statusTeams        roomStatus = "team_formation"
	statusWaiting      roomStatus = "waiting_for_describer"
	statusPlaying      roomStatus = "playing"
	statusRoundSummary roomStatus = "round_summary"
)

const (
	pointsPerWord      = 2
	closeThreshold     = 0.85
	maxRoundGuesses    = 50
	defaultTurnSeconds = 60
)

// Room is one game's full state. All mutation happens under mu; the only
// non-request writer is the turn timer, whose callback re-acquires mu and
// validates its turn serial before acting.
type Room struct {
	id       string
	hostName string

	mu           sync.RWMutex
	clients      map[*Client]bool
	roster       *roster
	bag          *wordBag
	language     string
	status       roomStatus
	scores       Scores
	turnDuration int
	turnSerial   int
	turnTimer    *time.Timer
	describerID  string
	lastDescID   string
	targetWords  []TargetWord
	roundGuesses []GuessRecord
	nextTeam     int

	createdAt  time.Time
	lastActive time.Time
}

func newRoom(id, hostName, language string, corpus Corpus) *Room {
	now := time.Now()
	return &Room{
		id:           id,
		hostName:     hostName,
		clients:      make(map[*Client]bool),
		roster:       newRoster(),
		bag:          newWordBag(corpus, language),
		language:     language,
		status:       statusLobby,
		turnDuration: defaultTurnSeconds,
		nextTeam:     coinFlipTeam(),
		createdAt:    now,
		lastActive:   now,
	}
}

func coinFlipTeam() int {
	if rand.Intn(2) == 0 {
		return team1
	}
	return team2
}

func otherTeam(team int) int {
	if team == team1 {
		return team2
	}
	return team1
}

// ---- Broadcast plumbing ----

func (r *Room) touchLocked() {
	r.lastActive = time.Now()
}

func (r *Room) broadcastLocked(msg any) {
	for client := range r.clients {
		select {
		case client.send <- msg:
		default:
			delete(r.clients, client)
			close(client.send)
		}
	}
}

func (r *Room) sendTo(c *Client, msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendToLocked(c, msg)
}

func (r *Room) sendToLocked(c *Client, msg any) {
	if !r.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		delete(r.clients, c)
		close(c.send)
	}
}

func (r *Room) clientByConnLocked(connID string) *Client {
	for client := range r.clients {
		if client.id == connID {
			return client
		}
	}
	return nil
}

func (r *Room) broadcastPlayersLocked() {
	r.broadcastLocked(UpdatePlayersMessage{Type: "updatePlayers", Players: r.roster.snapshot()})
}

func maskWords(words []TargetWord) []TargetWord {
	masked := make([]TargetWord, len(words))
	for i, w := range words {
		masked[i] = TargetWord{Word: "???", Guessed: w.Guessed}
	}
	return masked
}

// turnPayloadLocked builds the newTurn message for one recipient, masking
// the words unless the recipient is the active describer.
func (r *Room) turnPayloadLocked(recipient *Client, resume bool) NewTurnMessage {
	describerName := "Unknown"
	if p := r.roster.byConn(r.describerID); p != nil {
		describerName = p.Name
	}

	words := maskWords(r.targetWords)
	if recipient.id == r.describerID {
		words = append([]TargetWord(nil), r.targetWords...)
	}

	return NewTurnMessage{
		Type:          "newTurn",
		DescriberID:   r.describerID,
		DescriberName: describerName,
		Words:         words,
		Scores:        r.scores,
		Duration:      r.turnDuration,
		Resume:        resume,
	}
}

func (r *Room) isHostLocked(c *Client) bool {
	p := r.roster.byConn(c.id)
	return p != nil && p.Name == r.hostName
}

// ---- Engine operations ----

// join registers the connection and either creates a player or re-associates
// an existing name with the new connection. Mid-game joiners (and rejoiners)
// receive a synchronized snapshot.
func (r *Room) join(cfg *Config, c *Client, playerName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()
	r.clients[c] = true

	var oldConnID string
	if p := r.roster.byName(playerName); p != nil {
		oldConnID = p.ConnID
	}

	player, rejoined := r.roster.upsert(playerName, c.id)
	if rejoined {
		logf(cfg, "GAMES: Player %q reconnected to %s", playerName, r.id)
		// Identity is the name, so a reconnecting describer keeps the
		// role under the new connection ID.
		if r.describerID == oldConnID {
			r.describerID = c.id
		}
		if r.lastDescID == oldConnID {
			r.lastDescID = c.id
		}
	} else {
		logf(cfg, "GAMES: Player %q joined %s", playerName, r.id)
	}

	r.sendToLocked(c, HostStatusMessage{Type: "hostStatus", IsHost: player.Name == r.hostName})
	r.broadcastPlayersLocked()

	if r.status != statusPlaying {
		return
	}

	r.sendToLocked(c, GameStartedMessage{Type: "gameStarted", Duration: r.turnDuration})
	r.sendToLocked(c, UpdateScoreMessage{Type: "updateScore", Scores: r.scores})
	if r.describerID != "" {
		r.sendToLocked(c, r.turnPayloadLocked(c, true))
	}
}

// assignTeam moves a player onto a team. Host only.
func (r *Room) assignTeam(c *Client, playerID string, teamNum int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if !r.isHostLocked(c) {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the host can assign teams."})
		return
	}
	if teamNum != team1 && teamNum != team2 {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Invalid team."})
		return
	}

	player := r.roster.byConn(playerID)
	if player == nil {
		return
	}

	player.Team = teamNum
	r.broadcastPlayersLocked()
}

// kickPlayer removes a player outright. Host only. The kicked client gets a
// targeted notice before its connection is dropped.
func (r *Room) kickPlayer(c *Client, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if !r.isHostLocked(c) {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the host can kick players."})
		return
	}

	r.removePlayerLocked(playerID, "You have been kicked by the host.")
	r.broadcastPlayersLocked()
}

// removePlayerLocked drops a player's roster entry and disconnects their
// client, delivering reason to them first.
func (r *Room) removePlayerLocked(connID, reason string) *Player {
	if target := r.clientByConnLocked(connID); target != nil {
		r.sendToLocked(target, ErrorMessage{Type: "errorMsg", Message: reason})
		if r.clients[target] {
			delete(r.clients, target)
			close(target.send)
		}
	}
	return r.roster.remove(connID)
}

// startGame validates team readiness, stores the turn duration, and selects
// the first describer.
func (r *Room) startGame(c *Client, timerSetting int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	// Only a fresh or re-formed room may start; leaving round_summary is
	// startNextTurn's job, gated on the last describer.
	if r.status != statusLobby && r.status != statusTeams {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Game already in progress."})
		return
	}
	if r.roster.connectedCount(team1) < 2 || r.roster.connectedCount(team2) < 2 {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Need minimum 2 players per team."})
		return
	}

	if timerSetting > 0 {
		r.turnDuration = timerSetting
	} else {
		r.turnDuration = defaultTurnSeconds
	}

	r.prepareNextTurnLocked()
}

// prepareNextTurnLocked enters waiting_for_describer by selecting the next
// describer for the team whose turn it is, alternating teams. If the team
// has nobody connected, the other team is tried once.
func (r *Room) prepareNextTurnLocked() {
	r.stopTimerLocked()

	team := r.nextTeam
	r.nextTeam = otherTeam(team)

	describer := r.roster.nextDescriber(team)
	if describer == nil {
		team = r.nextTeam
		r.nextTeam = otherTeam(team)
		describer = r.roster.nextDescriber(team)
	}
	if describer == nil {
		r.status = statusRoundSummary
		r.broadcastLocked(SystemMessage{Type: "systemMessage", Message: "No connected players available to describe."})
		return
	}

	r.status = statusWaiting
	r.describerID = describer.ConnID
	r.targetWords = nil
	r.roundGuesses = nil

	r.broadcastLocked(DescriberSelectedMessage{
		Type:          "describerSelected",
		DescriberID:   describer.ConnID,
		DescriberName: describer.Name,
		Team:          team,
	})
}

// confirmStartTurn draws the round's words and starts the countdown.
// Accepted only from the currently selected describer.
func (r *Room) confirmStartTurn(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if r.status != statusWaiting {
		return
	}
	if c.id != r.describerID {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the selected describer can start the turn."})
		return
	}

	r.status = statusPlaying

	drawn := r.bag.drawRound()
	r.targetWords = make([]TargetWord, len(drawn))
	for i, word := range drawn {
		r.targetWords[i] = TargetWord{Word: word}
	}
	r.roundGuesses = nil

	for client := range r.clients {
		r.sendToLocked(client, r.turnPayloadLocked(client, false))
	}

	r.stopTimerLocked()
	r.turnSerial++
	serial := r.turnSerial
	r.turnTimer = time.AfterFunc(time.Duration(r.turnDuration)*time.Second, func() {
		r.timerExpired(serial)
	})
}

// timerExpired ends the turn on countdown expiry, unless the round it was
// scheduled for is already over.
func (r *Room) timerExpired(serial int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if serial != r.turnSerial || r.status != statusPlaying {
		return
	}
	r.endTurnLocked()
}

func (r *Room) stopTimerLocked() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

// endTurnLocked transitions to round_summary and broadcasts the summary.
// No-op unless a turn is actually in progress, so near-simultaneous
// triggers never double-apply.
func (r *Room) endTurnLocked() {
	if r.status != statusPlaying && r.status != statusWaiting {
		return
	}

	r.stopTimerLocked()
	r.turnSerial++

	r.status = statusRoundSummary
	r.lastDescID = r.describerID
	r.describerID = ""

	r.broadcastLocked(RoundSummaryMessage{
		Type:            "roundSummary",
		Scores:          r.scores,
		Team1Members:    r.roster.teamNames(team1),
		Team2Members:    r.roster.teamNames(team2),
		LastDescriberID: r.lastDescID,
		TargetWords:     append([]TargetWord(nil), r.targetWords...),
		RoundGuesses:    append([]GuessRecord(nil), r.roundGuesses...),
	})
}

// sendGuess evaluates every comma-separated token of a submission against
// the unguessed target words. Only exact matches (similarity 1.0) score;
// [0.85, 1.0) is "close" feedback without points. Guesses from the opposing
// team are broadcast with similarity forced to zero so proximity never
// leaks across teams.
func (r *Room) sendGuess(c *Client, rawInput string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if r.status != statusPlaying || len(r.targetWords) == 0 {
		return
	}

	player := r.roster.byConn(c.id)
	describer := r.roster.byConn(r.describerID)
	if player == nil || describer == nil || player.ConnID == r.describerID {
		return
	}

	isTeammate := player.Team != 0 && player.Team == describer.Team

	for _, token := range strings.Split(rawInput, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		best := 0.0
		exact := false

		if isTeammate {
			for i := range r.targetWords {
				target := &r.targetWords[i]
				if target.Guessed {
					continue
				}

				score := similarity(token, target.Word)
				if score > best {
					best = score
				}
				if score == 1.0 {
					exact = true
					target.Guessed = true
					if player.Team == team1 {
						r.scores.Team1 += pointsPerWord
					} else {
						r.scores.Team2 += pointsPerWord
					}

					r.broadcastLocked(WordGuessedMessage{Type: "wordGuessedSuccess", WordIndex: i, Scores: r.scores})

					if r.allGuessedLocked() {
						r.endTurnLocked()
					}
				}
			}
		}

		result := resultMiss
		switch {
		case exact:
			result = resultCorrect
		case best >= closeThreshold:
			result = resultClose
		}

		if len(r.roundGuesses) < maxRoundGuesses {
			r.roundGuesses = append(r.roundGuesses, GuessRecord{
				PlayerName: player.Name,
				Word:       token,
				Result:     result,
			})
		}

		reported := best
		if !isTeammate {
			reported = 0
		}
		r.broadcastLocked(GuessReceivedMessage{
			Type:       "guessReceived",
			PlayerName: player.Name,
			Word:       token,
			Similarity: reported,
		})
	}
}

func (r *Room) allGuessedLocked() bool {
	for _, w := range r.targetWords {
		if !w.Guessed {
			return false
		}
	}
	return true
}

// forceSkip lets the describer abandon the current round.
func (r *Room) forceSkip(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if c.id != r.describerID || r.describerID == "" {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the current describer can skip the turn."})
		return
	}

	r.endTurnLocked()
}

// hostRemoveStuckDescriber removes an unresponsive describer and promotes a
// replacement from the same team; if the team has no connected members
// left, the round ends with a notice instead. Host only.
func (r *Room) hostRemoveStuckDescriber(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if !r.isHostLocked(c) {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the host can remove the describer."})
		return
	}
	if r.describerID == "" {
		return
	}

	stuck := r.roster.byConn(r.describerID)
	if stuck == nil {
		return
	}
	team := stuck.Team

	r.removePlayerLocked(stuck.ConnID, "You have been removed by the host.")
	r.broadcastPlayersLocked()

	replacement := r.roster.nextDescriber(team)
	if replacement == nil {
		r.broadcastLocked(SystemMessage{Type: "systemMessage", Message: "No players left in this team! Round ended."})
		r.endTurnLocked()
		return
	}

	r.describerID = replacement.ConnID
	r.broadcastLocked(DescriberSelectedMessage{
		Type:          "describerSelected",
		DescriberID:   replacement.ConnID,
		DescriberName: replacement.Name,
		Team:          team,
	})
}

// startNextTurn re-enters describer selection after a round summary.
// Accepted only from the player who described last.
func (r *Room) startNextTurn(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if r.status != statusRoundSummary {
		return
	}
	if c.id != r.lastDescID {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the last describer can start the next turn."})
		return
	}

	r.prepareNextTurnLocked()
}

// resetGame clears scores, words, logs, and rotation, optionally switching
// the room's language, and returns to team formation. Host only.
func (r *Room) resetGame(c *Client, newLanguage string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.touchLocked()

	if !r.isHostLocked(c) {
		r.sendToLocked(c, ErrorMessage{Type: "errorMsg", Message: "Only the host can reset the game."})
		return
	}

	if newLanguage != "" {
		if _, ok := r.bag.corpus[newLanguage]; ok {
			r.language = newLanguage
		}
	}

	r.stopTimerLocked()
	r.turnSerial++

	r.scores = Scores{}
	r.status = statusTeams
	r.describerID = ""
	r.lastDescID = ""
	r.targetWords = nil
	r.roundGuesses = nil
	r.bag.reset(r.language)
	r.roster.resetRotation()
	r.nextTeam = coinFlipTeam()

	r.broadcastLocked(GameResetMessage{Type: "gameReset", Players: r.roster.snapshot()})
	r.broadcastLocked(UpdateScoreMessage{Type: "updateScore", Scores: r.scores})
}

// disconnect handles a dropped connection: players leaving the lobby are
// removed outright, mid-game players are only marked disconnected so they
// can reconnect by name later.
func (r *Room) disconnect(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clients[c] {
		delete(r.clients, c)
		close(c.send)
	}

	player := r.roster.byConn(c.id)
	if player == nil {
		// Superseded connection (the name rejoined elsewhere) or an
		// already-kicked player.
		return
	}

	r.touchLocked()

	if r.status == statusLobby {
		r.roster.remove(c.id)
	} else {
		player.Connected = false
	}

	r.broadcastPlayersLocked()
}

// closeAll disconnects every client of this room (used by the reaper).
func (r *Room) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTimerLocked()

	for c := range r.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(r.clients, c)
	}
}

func (r *Room) lastActiveTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastActive
}

func (r *Room) String() string {
	return fmt.Sprintf("room %s (%s)", r.id, r.language)
}
