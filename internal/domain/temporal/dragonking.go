package temporal

import (
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// DragonEntry is one row of the dragon-king ranking: the number of days
// a member tied for the most messages sent.
type DragonEntry struct {
	MemberID   int64   `json:"member_id"`
	Days       int     `json:"days"`
	Percentage float64 `json:"percentage"`
}

// DragonKingAnalysis is the immutable dragon-king output.
type DragonKingAnalysis struct {
	Rank      []DragonEntry `json:"rank"`
	TotalDays int           `json:"total_days"`
}

// DragonKing credits, for every calendar date, each sender tied for that
// date's maximum message count with one "dragon day". Ties produce
// multiple winners for the same date.
func DragonKing(messages []model.Message, opts Options) DragonKingAnalysis {
	opts = opts.normalized()

	perDay := make(map[day]map[int64]int)
	for _, msg := range messages {
		d := opts.dayOf(msg.Timestamp)
		senders := perDay[d]
		if senders == nil {
			senders = make(map[int64]int)
			perDay[d] = senders
		}
		senders[msg.SenderID]++
	}

	dragonDays := make(map[int64]int)
	for _, senders := range perDay {
		max := 0
		for _, c := range senders {
			if c > max {
				max = c
			}
		}
		for id, c := range senders {
			if c == max {
				dragonDays[id]++
			}
		}
	}

	totalDays := len(perDay)
	entries := make([]DragonEntry, 0, len(dragonDays))
	for _, id := range memberIDs(dragonDays) {
		entries = append(entries, DragonEntry{
			MemberID:   id,
			Days:       dragonDays[id],
			Percentage: rank.Percentage(float64(dragonDays[id]), float64(totalDays)),
		})
	}
	rank.SortStable(entries, func(a, b DragonEntry) bool {
		if a.Days != b.Days {
			return a.Days > b.Days
		}
		return a.MemberID < b.MemberID
	})

	return DragonKingAnalysis{Rank: entries, TotalDays: totalDays}
}
