package temporal

import (
	"time"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// Night-owl scoring weights for the composite champion score.
const (
	championNightWeight       = 1
	championLastSpeakerWeight = 10
	championConsecutiveWeight = 20
)

// Hour bucket labels for the night breakdown.
const (
	bucket23    = "23"
	bucket0     = "0"
	bucket1     = "1"
	bucket2     = "2"
	bucketSmall = "3-4"
)

// nightTitles maps tier index to display title. The tier index travels
// with every entry so a presentation layer can re-label freely.
var nightTitles = []string{
	"Daywalker",
	"Dusk Dabbler",
	"Night Regular",
	"Night Owl",
	"Seasoned Night Owl",
	"Nocturnal Elder",
	"Lord of the Small Hours",
}

// nightTier classifies a total night-message count. Thresholds are
// strictly increasing: 0, ≤20, ≤50, ≤100, ≤200, ≤500, else.
func nightTier(total int) int {
	switch {
	case total == 0:
		return 0
	case total <= 20:
		return 1
	case total <= 50:
		return 2
	case total <= 100:
		return 3
	case total <= 200:
		return 4
	case total <= 500:
		return 5
	default:
		return 6
	}
}

// NightOwlEntry is one row of the night-activity ranking.
type NightOwlEntry struct {
	MemberID      int64          `json:"member_id"`
	NightMessages int            `json:"night_messages"`
	Percentage    float64        `json:"percentage"` // over the member's total messages
	Tier          int            `json:"tier"`
	Title         string         `json:"title"`
	HourBreakdown map[string]int `json:"hour_breakdown"`
}

// SpeakerEntry is one row of the last/first-speaker-of-day rankings.
type SpeakerEntry struct {
	MemberID    int64   `json:"member_id"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"` // over total distinct dates
	AverageTime string  `json:"average_time"`
	ExtremeTime string  `json:"extreme_time"`
}

// ConsecutiveEntry records a member's night-day streaks.
type ConsecutiveEntry struct {
	MemberID  int64 `json:"member_id"`
	MaxNights int   `json:"max_nights"`
	CurNights int   `json:"current_nights"`
	TotalDays int   `json:"total_night_days"`
}

// ChampionEntry is one row of the composite night-champion ranking.
type ChampionEntry struct {
	MemberID         int64 `json:"member_id"`
	Score            int   `json:"score"`
	NightMessages    int   `json:"night_messages"`
	LastSpeakerCount int   `json:"last_speaker_count"`
	MaxNights        int   `json:"max_nights"`
}

// NightOwlAnalysis is the immutable night-owl output.
type NightOwlAnalysis struct {
	NightOwlRank       []NightOwlEntry    `json:"night_owl_rank"`
	LastSpeakerRank    []SpeakerEntry     `json:"last_speaker_rank"`
	FirstSpeakerRank   []SpeakerEntry     `json:"first_speaker_rank"`
	ConsecutiveRecords []ConsecutiveEntry `json:"consecutive_records"`
	Champions          []ChampionEntry    `json:"champions"`
	TotalDays          int                `json:"total_days"`
}

type nightAccum struct {
	total     int
	buckets   map[string]int
	nightDays map[day]bool
}

type speakerAccum struct {
	count        int
	totalMinutes int
	extreme      int
}

// NightOwl computes night-hour activity, night-day streaks, last/first
// speaker-of-day credits, and the composite champion ranking.
//
// The night window is [23:00, 05:00). Messages before 05:00 belong to
// the previous day's overnight session ("night-day"). CurNights is the
// only output here dependent on Options.Now: it is non-zero only when a
// member's most recent night-day is today or yesterday.
func NightOwl(messages []model.Message, opts Options) NightOwlAnalysis {
	opts = opts.normalized()

	night := make(map[int64]*nightAccum)
	totalByMember := make(map[int64]int)
	lastOfDay := make(map[day]model.Message)
	firstOfDay := make(map[day]model.Message)

	for _, msg := range messages {
		totalByMember[msg.SenderID]++

		d := opts.dayOf(msg.Timestamp)
		// Stream order makes the last write per date the chronologically
		// last message of that date.
		if _, ok := firstOfDay[d]; !ok {
			firstOfDay[d] = msg
		}
		lastOfDay[d] = msg

		t := time.Unix(msg.Timestamp, 0).In(opts.Location)
		hour := t.Hour()
		if hour < nightStartHour && hour >= nightEndHour {
			continue
		}
		acc := night[msg.SenderID]
		if acc == nil {
			acc = &nightAccum{buckets: make(map[string]int), nightDays: make(map[day]bool)}
			night[msg.SenderID] = acc
		}
		acc.total++
		acc.buckets[hourBucket(hour)]++
		nightDay := d
		if hour < nightEndHour {
			nightDay-- // a 1am message belongs to the previous overnight session
		}
		acc.nightDays[nightDay] = true
	}

	totalDays := len(lastOfDay)
	today := civilDay(opts.Now.In(opts.Location).Date())

	owlRank := make([]NightOwlEntry, 0, len(night))
	consecutive := make([]ConsecutiveEntry, 0, len(night))
	champions := make([]ChampionEntry, 0, len(night))
	lastCounts := speakerCounts(lastOfDay, opts, true)
	firstCounts := speakerCounts(firstOfDay, opts, false)

	for _, id := range memberIDs(night) {
		acc := night[id]
		tier := nightTier(acc.total)
		owlRank = append(owlRank, NightOwlEntry{
			MemberID:      id,
			NightMessages: acc.total,
			Percentage:    rank.Percentage(float64(acc.total), float64(totalByMember[id])),
			Tier:          tier,
			Title:         nightTitles[tier],
			HourBreakdown: acc.buckets,
		})

		days := sortedDays(acc.nightDays)
		maxRun, _, _ := longestRun(days)
		cur := 0
		if len(days) > 0 {
			last := days[len(days)-1]
			if last == today || last == today-1 {
				cur = trailingRun(days)
			}
		}
		consecutive = append(consecutive, ConsecutiveEntry{
			MemberID:  id,
			MaxNights: maxRun,
			CurNights: cur,
			TotalDays: len(days),
		})

		lastCount := 0
		if s := lastCounts[id]; s != nil {
			lastCount = s.count
		}
		score := acc.total*championNightWeight +
			lastCount*championLastSpeakerWeight +
			maxRun*championConsecutiveWeight
		if score > 0 {
			champions = append(champions, ChampionEntry{
				MemberID:         id,
				Score:            score,
				NightMessages:    acc.total,
				LastSpeakerCount: lastCount,
				MaxNights:        maxRun,
			})
		}
	}

	rank.SortStable(owlRank, func(a, b NightOwlEntry) bool {
		if a.NightMessages != b.NightMessages {
			return a.NightMessages > b.NightMessages
		}
		return a.MemberID < b.MemberID
	})
	rank.SortStable(consecutive, func(a, b ConsecutiveEntry) bool {
		if a.MaxNights != b.MaxNights {
			return a.MaxNights > b.MaxNights
		}
		return a.MemberID < b.MemberID
	})
	rank.SortStable(champions, func(a, b ChampionEntry) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.MemberID < b.MemberID
	})

	return NightOwlAnalysis{
		NightOwlRank:       owlRank,
		LastSpeakerRank:    speakerRank(lastCounts, totalDays),
		FirstSpeakerRank:   speakerRank(firstCounts, totalDays),
		ConsecutiveRecords: consecutive,
		Champions:          champions,
		TotalDays:          totalDays,
	}
}

func hourBucket(hour int) string {
	switch hour {
	case nightStartHour:
		return bucket23
	case 0:
		return bucket0
	case 1:
		return bucket1
	case 2:
		return bucket2
	default:
		return bucketSmall // [3,5)
	}
}

// speakerCounts aggregates one-credit-per-date speaker records. For the
// last speaker the extreme time is the latest minute, for the first
// speaker the earliest.
func speakerCounts(byDay map[day]model.Message, opts Options, latest bool) map[int64]*speakerAccum {
	out := make(map[int64]*speakerAccum)
	for _, msg := range byDay {
		acc := out[msg.SenderID]
		minute := opts.minuteOfDay(msg.Timestamp)
		if acc == nil {
			acc = &speakerAccum{extreme: minute}
			out[msg.SenderID] = acc
		}
		acc.count++
		acc.totalMinutes += minute
		if (latest && minute > acc.extreme) || (!latest && minute < acc.extreme) {
			acc.extreme = minute
		}
	}
	return out
}

func speakerRank(counts map[int64]*speakerAccum, totalDays int) []SpeakerEntry {
	entries := make([]SpeakerEntry, 0, len(counts))
	for _, id := range memberIDs(counts) {
		acc := counts[id]
		entries = append(entries, SpeakerEntry{
			MemberID:    id,
			Count:       acc.count,
			Percentage:  rank.Percentage(float64(acc.count), float64(totalDays)),
			AverageTime: formatMinutes(acc.totalMinutes / acc.count),
			ExtremeTime: formatMinutes(acc.extreme),
		})
	}
	rank.SortStable(entries, func(a, b SpeakerEntry) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.MemberID < b.MemberID
	})
	return entries
}
