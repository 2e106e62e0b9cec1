// Package testchat generates plausible synthetic chat sessions and
// verifies analytics invariants over them. It backs the chat-sim
// command and the heavier service tests.
package testchat

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/arasmand/chatpulse/internal/domain/model"
)

// Generation tuning constants.
const (
	defaultMembers   = 12
	defaultDays      = 30
	defaultPerDay    = 200
	echoChance       = 0.08 // chance a message starts or extends an echo chain
	imageBurstChance = 0.05
	nightChance      = 0.15
	maxGapSeconds    = 600
)

// Config controls generation.
type Config struct {
	SessionID string
	Members   int
	Days      int
	PerDay    int // average messages per day
	Seed      int64
	Start     time.Time
}

// DefaultConfig returns a mid-size deterministic corpus.
func DefaultConfig() Config {
	return Config{
		SessionID: "sim",
		Members:   defaultMembers,
		Days:      defaultDays,
		PerDay:    defaultPerDay,
		Seed:      1,
		Start:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Corpus is one generated session.
type Corpus struct {
	SessionID string
	Members   []model.Member
	Messages  []model.Message
}

var phrases = []string{
	"morning all", "anyone around?", "lol", "that's wild", "same",
	"did you see the game", "brb", "ok ok", "no way", "true",
	"what time works", "let's go", "+1", "nice one", "hmm",
}

// Generate builds a deterministic synthetic session: mostly text with
// occasional echo chains, image bursts and late-night stretches. The
// message slice is ordered by (timestamp, id) as the feed contract
// requires.
func Generate(cfg Config) Corpus {
	if cfg.Members <= 0 {
		cfg.Members = defaultMembers
	}
	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}
	if cfg.PerDay <= 0 {
		cfg.PerDay = defaultPerDay
	}
	if cfg.Start.IsZero() {
		cfg.Start = DefaultConfig().Start
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	members := make([]model.Member, cfg.Members)
	for i := range members {
		members[i] = model.Member{
			ID:          int64(i + 1),
			PlatformID:  uuid.NewString(),
			DisplayName: memberName(i),
		}
	}

	var messages []model.Message
	var nextID int64
	counts := make(map[int64]int)
	emit := func(ts int64, sender int64, content string, typ model.MessageType) {
		nextID++
		messages = append(messages, model.Message{
			ID:        nextID,
			SenderID:  sender,
			Timestamp: ts,
			Content:   content,
			Type:      typ,
		})
		counts[sender]++
	}

	pick := func(exclude int64) int64 {
		for {
			id := int64(rng.Intn(cfg.Members) + 1)
			if id != exclude {
				return id
			}
		}
	}

	for d := 0; d < cfg.Days; d++ {
		dayStart := cfg.Start.AddDate(0, 0, d)
		ts := dayStart.Unix()
		n := cfg.PerDay/2 + rng.Intn(cfg.PerDay)
		for i := 0; i < n; i++ {
			ts += int64(rng.Intn(maxGapSeconds) + 1)
			sender := int64(rng.Intn(cfg.Members) + 1)

			switch {
			case rng.Float64() < echoChance:
				// Echo chain: 2-5 more senders repeat the phrase.
				content := phrases[rng.Intn(len(phrases))]
				emit(ts, sender, content, model.TypeText)
				repeats := 2 + rng.Intn(4)
				prev := sender
				for r := 0; r < repeats; r++ {
					ts += int64(rng.Intn(15) + 1)
					prev = pick(prev)
					emit(ts, prev, content, model.TypeText)
				}
			case rng.Float64() < imageBurstChance:
				// Image burst: 3-8 stickers/images from 2+ senders.
				burst := 3 + rng.Intn(6)
				prev := sender
				for r := 0; r < burst; r++ {
					ts += int64(rng.Intn(20) + 1)
					typ := model.TypeImage
					if rng.Intn(2) == 0 {
						typ = model.TypeSticker
					}
					emit(ts, prev, "", typ)
					prev = pick(prev)
				}
			case rng.Float64() < nightChance:
				// Shift into the night window of the same date.
				night := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
					23, rng.Intn(60), 0, 0, time.UTC)
				emit(night.Unix()+int64(i), sender, phrases[rng.Intn(len(phrases))], model.TypeText)
			default:
				emit(ts, sender, phrases[rng.Intn(len(phrases))], model.TypeText)
			}
		}
	}

	// Night messages land out of order relative to the day's tail, so
	// restore the (timestamp, id) invariant once at the end.
	sortMessages(messages)
	for i := range members {
		members[i].MessageCount = counts[members[i].ID]
	}

	return Corpus{SessionID: cfg.SessionID, Members: members, Messages: messages}
}

func memberName(i int) string {
	names := []string{
		"ada", "brook", "casey", "devon", "ellis", "finley",
		"gray", "harper", "indigo", "jules", "kit", "lane",
		"morgan", "noel", "oakley", "peyton",
	}
	if i < len(names) {
		return names[i]
	}
	return names[i%len(names)] + "-" + string(rune('a'+i/len(names)))
}

func sortMessages(msgs []model.Message) {
	// Insertion sort keeps the nearly-sorted stream cheap to fix.
	for i := 1; i < len(msgs); i++ {
		for j := i; j > 0 && less(msgs[j], msgs[j-1]); j-- {
			msgs[j], msgs[j-1] = msgs[j-1], msgs[j]
		}
	}
}

func less(a, b model.Message) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	return a.ID < b.ID
}
