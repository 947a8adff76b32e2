package main

// ClientMessage is the single inbound envelope; unused fields stay empty.
type ClientMessage struct {
	Type         string `json:"type"`                   // event name, see dispatch
	HostName     string `json:"hostName,omitempty"`     // createGame
	Language     string `json:"language,omitempty"`     // createGame
	RoomID       string `json:"roomId,omitempty"`       // joinGame
	PlayerName   string `json:"playerName,omitempty"`   // joinGame
	PlayerID     string `json:"playerId,omitempty"`     // assignTeam / kickPlayer
	TeamNum      int    `json:"teamNum,omitempty"`      // assignTeam
	TimerSetting int    `json:"timerSetting,omitempty"` // startGame
	RawInput     string `json:"rawInput,omitempty"`     // sendGuess
	NewLanguage  string `json:"newLanguage,omitempty"`  // resetGame
}

// Scores is the per-team scoreboard.
type Scores struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// TargetWord is one of a round's secret words. Non-describers receive it
// masked.
type TargetWord struct {
	Word    string `json:"word"`
	Guessed bool   `json:"guessed"`
}

// Guess classifications.
const (
	resultCorrect = "CORRECT"
	resultClose   = "CLOSE"
	resultMiss    = "MISS"
)

// GuessRecord is one entry of a round's bounded guess log.
type GuessRecord struct {
	PlayerName string `json:"playerName"`
	Word       string `json:"word"`
	Result     string `json:"result"`
}

type GameCreatedMessage struct {
	Type   string `json:"type"` // "gameCreated"
	RoomID string `json:"roomId"`
}

type HostStatusMessage struct {
	Type   string `json:"type"` // "hostStatus"
	IsHost bool   `json:"isHost"`
}

// ErrorMessage is a single-recipient informational error; never broadcast.
type ErrorMessage struct {
	Type    string `json:"type"` // "errorMsg"
	Message string `json:"message"`
}

// SystemMessage carries room-wide notices ("no players left in this team").
type SystemMessage struct {
	Type    string `json:"type"` // "systemMessage"
	Message string `json:"message"`
}

type UpdatePlayersMessage struct {
	Type    string   `json:"type"` // "updatePlayers"
	Players []Player `json:"players"`
}

type UpdateScoreMessage struct {
	Type   string `json:"type"` // "updateScore"
	Scores Scores `json:"scores"`
}

type GameStartedMessage struct {
	Type     string `json:"type"` // "gameStarted"
	Duration int    `json:"duration"`
}

type DescriberSelectedMessage struct {
	Type          string `json:"type"` // "describerSelected"
	DescriberID   string `json:"describerId"`
	DescriberName string `json:"describerName"`
	Team          int    `json:"team"`
}

// NewTurnMessage carries the turn payload. Words are visible in full only
// to the describer; everyone else gets masked placeholders. Resume marks a
// reconnection snapshot rather than a fresh countdown start.
type NewTurnMessage struct {
	Type          string       `json:"type"` // "newTurn"
	DescriberID   string       `json:"describerId"`
	DescriberName string       `json:"describerName"`
	Words         []TargetWord `json:"words"`
	Scores        Scores       `json:"scores"`
	Duration      int          `json:"duration"`
	Resume        bool         `json:"resume,omitempty"`
}

type GuessReceivedMessage struct {
	Type       string  `json:"type"` // "guessReceived"
	PlayerName string  `json:"playerName"`
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

type WordGuessedMessage struct {
	Type      string `json:"type"` // "wordGuessedSuccess"
	WordIndex int    `json:"wordIndex"`
	Scores    Scores `json:"scores"`
}

type RoundSummaryMessage struct {
	Type            string        `json:"type"` // "roundSummary"
	Scores          Scores        `json:"scores"`
	Team1Members    []string      `json:"team1Members"`
	Team2Members    []string      `json:"team2Members"`
	LastDescriberID string        `json:"lastDescriberId"`
	TargetWords     []TargetWord  `json:"targetWords"`
	RoundGuesses    []GuessRecord `json:"roundGuesses"`
}

type GameResetMessage struct {
	Type    string   `json:"type"` // "gameReset"
	Players []Player `json:"players"`
}
