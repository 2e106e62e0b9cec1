// Package battle detects multi-sender bursts of image and sticker
// messages ("meme battles") and ranks participants.
package battle

import (
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// Default battle configuration constants.
const (
	DefaultMinLength       = 3
	DefaultMinParticipants = 2
	DefaultTopBattles      = 30
)

// Options configures the detector.
type Options struct {
	MinLength       int
	MinParticipants int
	TopBattles      int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MinLength:       DefaultMinLength,
		MinParticipants: DefaultMinParticipants,
		TopBattles:      DefaultTopBattles,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MinLength <= 0 {
		o.MinLength = d.MinLength
	}
	if o.MinParticipants <= 0 {
		o.MinParticipants = d.MinParticipants
	}
	if o.TopBattles <= 0 {
		o.TopBattles = d.TopBattles
	}
	return o
}

// Participant is one member's contribution to a battle.
type Participant struct {
	MemberID   int64 `json:"member_id"`
	ImageCount int   `json:"image_count"`
}

// Battle is one qualifying run of consecutive image/sticker messages.
type Battle struct {
	StartTimestamp   int64         `json:"start_timestamp"`
	EndTimestamp     int64         `json:"end_timestamp"`
	TotalImages      int           `json:"total_images"`
	ParticipantCount int           `json:"participant_count"`
	Participants     []Participant `json:"participants"`
}

// CountEntry is one row of the participation or image-count rankings.
type CountEntry struct {
	MemberID   int64   `json:"member_id"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Analysis is the immutable battle output.
type Analysis struct {
	TopBattles       []Battle     `json:"top_battles"`
	RankByCount      []CountEntry `json:"rank_by_count"`
	RankByImageCount []CountEntry `json:"rank_by_image_count"`
	TotalBattles     int          `json:"total_battles"`
}

// qualifies reports whether a message type participates in a battle run.
// Links are explicitly excluded even though some exports tag shared
// images as links.
func qualifies(t model.MessageType) bool {
	return t == model.TypeImage || t == model.TypeSticker
}

// Detect builds maximal consecutive runs of qualifying messages and
// keeps the runs long and contested enough to count as battles.
func Detect(messages []model.Message, opts Options) Analysis {
	opts = opts.normalized()

	var battles []Battle
	var run []model.Message
	flush := func() {
		if b, ok := buildBattle(run, opts); ok {
			battles = append(battles, b)
		}
		run = run[:0]
	}
	for _, msg := range messages {
		if qualifies(msg.Type) {
			run = append(run, msg)
			continue
		}
		flush()
	}
	flush()

	totalBattles := len(battles)
	totalImages := 0
	participation := make(map[int64]int)
	images := make(map[int64]int)
	for _, b := range battles {
		totalImages += b.TotalImages
		for _, p := range b.Participants {
			participation[p.MemberID]++
			images[p.MemberID] += p.ImageCount
		}
	}

	top := make([]Battle, len(battles))
	copy(top, battles)
	rank.SortStable(top, func(a, b Battle) bool {
		if a.TotalImages != b.TotalImages {
			return a.TotalImages > b.TotalImages
		}
		return a.StartTimestamp < b.StartTimestamp
	})

	return Analysis{
		TopBattles:       rank.TopN(top, opts.TopBattles),
		RankByCount:      countRank(participation, float64(totalBattles)),
		RankByImageCount: countRank(images, float64(totalImages)),
		TotalBattles:     totalBattles,
	}
}

// buildBattle turns a run into a Battle when it is long enough and has
// enough distinct senders.
func buildBattle(run []model.Message, opts Options) (Battle, bool) {
	if len(run) < opts.MinLength {
		return Battle{}, false
	}
	perSender := make(map[int64]int)
	for _, msg := range run {
		perSender[msg.SenderID]++
	}
	if len(perSender) < opts.MinParticipants {
		return Battle{}, false
	}

	participants := make([]Participant, 0, len(perSender))
	for id, c := range perSender {
		participants = append(participants, Participant{MemberID: id, ImageCount: c})
	}
	rank.SortStable(participants, func(a, b Participant) bool {
		if a.ImageCount != b.ImageCount {
			return a.ImageCount > b.ImageCount
		}
		return a.MemberID < b.MemberID
	})

	return Battle{
		StartTimestamp:   run[0].Timestamp,
		EndTimestamp:     run[len(run)-1].Timestamp,
		TotalImages:      len(run),
		ParticipantCount: len(perSender),
		Participants:     participants,
	}, true
}

func countRank(counts map[int64]int, whole float64) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for id, c := range counts {
		entries = append(entries, CountEntry{
			MemberID:   id,
			Count:      c,
			Percentage: rank.Percentage(float64(c), whole),
		})
	}
	rank.SortStable(entries, func(a, b CountEntry) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.MemberID < b.MemberID
	})
	return entries
}
