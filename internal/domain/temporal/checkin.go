package temporal

import (
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// StreakEntry records a member's check-in streaks over calendar dates.
type StreakEntry struct {
	MemberID       int64  `json:"member_id"`
	MaxStreak      int    `json:"max_streak"`
	MaxStreakStart string `json:"max_streak_start"`
	MaxStreakEnd   string `json:"max_streak_end"`
	CurrentStreak  int    `json:"current_streak"`
	ActiveDays     int    `json:"active_days"`
}

// LoyaltyEntry ranks a member's active-day total against the most
// active member.
type LoyaltyEntry struct {
	MemberID   int64   `json:"member_id"`
	ActiveDays int     `json:"active_days"`
	Percentage float64 `json:"percentage"`
}

// CheckInAnalysis is the immutable check-in/loyalty output.
type CheckInAnalysis struct {
	StreakRank  []StreakEntry  `json:"streak_rank"`
	LoyaltyRank []LoyaltyEntry `json:"loyalty_rank"`
	TotalDays   int            `json:"total_days"`
}

// CheckIn computes per-member continuous-activity streaks over distinct
// calendar dates. CurrentStreak is non-zero only when the member's last
// active date equals the global last active date across all members.
func CheckIn(messages []model.Message, opts Options) CheckInAnalysis {
	opts = opts.normalized()

	active := make(map[int64]map[day]bool)
	global := make(map[day]bool)
	var globalLast day
	for _, msg := range messages {
		d := opts.dayOf(msg.Timestamp)
		set := active[msg.SenderID]
		if set == nil {
			set = make(map[day]bool)
			active[msg.SenderID] = set
		}
		set[d] = true
		global[d] = true
		if d > globalLast {
			globalLast = d
		}
	}

	maxActive := 0
	for _, set := range active {
		if len(set) > maxActive {
			maxActive = len(set)
		}
	}

	streaks := make([]StreakEntry, 0, len(active))
	loyalty := make([]LoyaltyEntry, 0, len(active))
	for _, id := range memberIDs(active) {
		days := sortedDays(active[id])
		maxRun, start, end := longestRun(days)
		cur := 0
		if len(days) > 0 && days[len(days)-1] == globalLast {
			cur = trailingRun(days)
		}
		streaks = append(streaks, StreakEntry{
			MemberID:       id,
			MaxStreak:      maxRun,
			MaxStreakStart: start.String(),
			MaxStreakEnd:   end.String(),
			CurrentStreak:  cur,
			ActiveDays:     len(days),
		})
		loyalty = append(loyalty, LoyaltyEntry{
			MemberID:   id,
			ActiveDays: len(days),
			Percentage: rank.Percentage(float64(len(days)), float64(maxActive)),
		})
	}

	rank.SortStable(streaks, func(a, b StreakEntry) bool {
		if a.MaxStreak != b.MaxStreak {
			return a.MaxStreak > b.MaxStreak
		}
		return a.MemberID < b.MemberID
	})
	rank.SortStable(loyalty, func(a, b LoyaltyEntry) bool {
		if a.ActiveDays != b.ActiveDays {
			return a.ActiveDays > b.ActiveDays
		}
		return a.MemberID < b.MemberID
	})

	return CheckInAnalysis{
		StreakRank:  streaks,
		LoyaltyRank: loyalty,
		TotalDays:   len(global),
	}
}
