package temporal

import (
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// DivingEntry records how long a member has been silent.
type DivingEntry struct {
	MemberID      int64 `json:"member_id"`
	LastTimestamp int64 `json:"last_timestamp"`
	DaysSilent    int   `json:"days_silent"`
}

// DivingAnalysis is the immutable diving output. Entries are ordered
// longest-silent first with a member-id tie-break; callers wanting
// recently-active-first reverse the slice.
type DivingAnalysis struct {
	Rank []DivingEntry `json:"rank"`
}

// Diving computes days since each member's last message, relative to
// Options.Now.
func Diving(messages []model.Message, opts Options) DivingAnalysis {
	opts = opts.normalized()

	last := make(map[int64]int64)
	for _, msg := range messages {
		if msg.Timestamp > last[msg.SenderID] {
			last[msg.SenderID] = msg.Timestamp
		}
	}

	now := opts.Now.Unix()
	entries := make([]DivingEntry, 0, len(last))
	for _, id := range memberIDs(last) {
		silent := 0
		if now > last[id] {
			silent = int((now - last[id]) / secondsPerDay)
		}
		entries = append(entries, DivingEntry{
			MemberID:      id,
			LastTimestamp: last[id],
			DaysSilent:    silent,
		})
	}
	rank.SortStable(entries, func(a, b DivingEntry) bool {
		if a.DaysSilent != b.DaysSilent {
			return a.DaysSilent > b.DaysSilent
		}
		return a.MemberID < b.MemberID
	})

	return DivingAnalysis{Rank: entries}
}
