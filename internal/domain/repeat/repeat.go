// Package repeat detects runs of identical consecutive content crossing
// multiple senders ("echo chains") and derives per-role rankings:
// originators, initiators, breakers and fastest repeaters.
package repeat

import (
	"strings"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// Default chain configuration constants.
const (
	MinChainLength          = 3
	DefaultResponseWindow   = 20 // seconds between adjacent chain entries
	DefaultMinFastResponses = 5
	HotContentCap           = 100
)

// Options configures the detector.
type Options struct {
	// ResponseWindowSeconds bounds what counts as a "fast" in-chain
	// response for the fastest-repeater ranking.
	ResponseWindowSeconds int64
	// MinFastResponses is the qualification floor for that ranking.
	MinFastResponses int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ResponseWindowSeconds: DefaultResponseWindow,
		MinFastResponses:      DefaultMinFastResponses,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ResponseWindowSeconds <= 0 {
		o.ResponseWindowSeconds = d.ResponseWindowSeconds
	}
	if o.MinFastResponses <= 0 {
		o.MinFastResponses = d.MinFastResponses
	}
	return o
}

// RoleEntry is one row of a role ranking.
type RoleEntry struct {
	MemberID   int64   `json:"member_id"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FastEntry is one row of the fastest-repeater ranking.
type FastEntry struct {
	MemberID    int64   `json:"member_id"`
	Responses   int     `json:"responses"`
	MeanSeconds float64 `json:"mean_seconds"`
}

// HotContent is the per-content aggregate across all counted chains.
type HotContent struct {
	Content             string `json:"content"`
	OccurrenceCount     int    `json:"occurrence_count"`
	MaxChainLength      int    `json:"max_chain_length"`
	OriginatorID        int64  `json:"originator_id"`
	LastTimestamp       int64  `json:"last_timestamp"`
	RepresentativeMsgID int64  `json:"representative_message_id"`
}

// Analysis is the immutable detector output.
type Analysis struct {
	Originators             []RoleEntry  `json:"originators"`
	Initiators              []RoleEntry  `json:"initiators"`
	Breakers                []RoleEntry  `json:"breakers"`
	FastestRepeaters        []FastEntry  `json:"fastest_repeaters"`
	OriginatorRates         []RoleEntry  `json:"originator_rates"`
	InitiatorRates          []RoleEntry  `json:"initiator_rates"`
	BreakerRates            []RoleEntry  `json:"breaker_rates"`
	ChainLengthDistribution map[int]int  `json:"chain_length_distribution"`
	HotContents             []HotContent `json:"hot_contents"`
	AvgChainLength          float64      `json:"avg_chain_length"`
	TotalRepeatChains       int          `json:"total_repeat_chains"`
}

type chainEntry struct {
	id       int64
	senderID int64
	ts       int64
}

type fastAccum struct {
	totalSeconds int64
	responses    int
}

type detector struct {
	opts Options

	currentContent string
	chain          []chainEntry

	totalChains      int
	totalChainLength int
	distribution     map[int]int
	originators      map[int64]int
	initiators       map[int64]int
	breakers         map[int64]int
	fast             map[int64]*fastAccum
	hot              map[string]*HotContent
	textCount        map[int64]int
}

// Detect runs the chain state machine over the ordered stream. Non-text
// and empty-after-trim messages are skipped; they neither extend nor
// break a chain because the contract feeds text-only input.
func Detect(messages []model.Message, opts Options) Analysis {
	d := &detector{
		opts:         opts.normalized(),
		distribution: make(map[int]int),
		originators:  make(map[int64]int),
		initiators:   make(map[int64]int),
		breakers:     make(map[int64]int),
		fast:         make(map[int64]*fastAccum),
		hot:          make(map[string]*HotContent),
		textCount:    make(map[int64]int),
	}

	for _, msg := range messages {
		if msg.Type != model.TypeText {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		d.textCount[msg.SenderID]++
		d.step(msg, content)
	}
	d.close(nil) // end-of-stream flush, no breaker

	return d.result()
}

// step feeds one trimmed text message to the state machine.
func (d *detector) step(msg model.Message, content string) {
	if content == d.currentContent && len(d.chain) > 0 {
		last := d.chain[len(d.chain)-1]
		if msg.SenderID == last.senderID {
			// Same-sender immediate repeat: strict no-op. The chain is
			// unaffected and the next message re-evaluates against the
			// unchanged current content.
			return
		}
		d.chain = append(d.chain, chainEntry{id: msg.ID, senderID: msg.SenderID, ts: msg.Timestamp})
		return
	}

	d.close(&msg)
	d.currentContent = content
	d.chain = d.chain[:0]
	d.chain = append(d.chain, chainEntry{id: msg.ID, senderID: msg.SenderID, ts: msg.Timestamp})
}

// close counts the open chain if it reached the minimum length. breaker
// is the message whose differing content triggered the close; nil at the
// end-of-stream flush.
func (d *detector) close(breaker *model.Message) {
	if len(d.chain) < MinChainLength {
		return
	}

	d.totalChains++
	d.totalChainLength += len(d.chain)
	d.distribution[len(d.chain)]++
	d.originators[d.chain[0].senderID]++
	d.initiators[d.chain[1].senderID]++
	if breaker != nil {
		d.breakers[breaker.SenderID]++
	}

	for i := 1; i < len(d.chain); i++ {
		dt := d.chain[i].ts - d.chain[i-1].ts
		if dt <= d.opts.ResponseWindowSeconds {
			acc := d.fast[d.chain[i].senderID]
			if acc == nil {
				acc = &fastAccum{}
				d.fast[d.chain[i].senderID] = acc
			}
			acc.totalSeconds += dt
			acc.responses++
		}
	}

	head := d.chain[0]
	h := d.hot[d.currentContent]
	if h == nil {
		h = &HotContent{
			Content:             d.currentContent,
			MaxChainLength:      len(d.chain),
			OriginatorID:        head.senderID,
			RepresentativeMsgID: head.id,
		}
		d.hot[d.currentContent] = h
	} else if len(d.chain) > h.MaxChainLength {
		h.MaxChainLength = len(d.chain)
		h.OriginatorID = head.senderID
		h.RepresentativeMsgID = head.id
	}
	h.OccurrenceCount++
	if head.ts > h.LastTimestamp {
		h.LastTimestamp = head.ts
	}
}

func (d *detector) result() Analysis {
	a := Analysis{
		Originators:             d.roleRank(d.originators, float64(d.totalChains), nil),
		Initiators:              d.roleRank(d.initiators, float64(d.totalChains), nil),
		Breakers:                d.roleRank(d.breakers, float64(d.totalChains), nil),
		OriginatorRates:         d.roleRank(d.originators, 0, d.textCount),
		InitiatorRates:          d.roleRank(d.initiators, 0, d.textCount),
		BreakerRates:            d.roleRank(d.breakers, 0, d.textCount),
		ChainLengthDistribution: d.distribution,
		HotContents:             d.hotRank(),
		TotalRepeatChains:       d.totalChains,
	}
	if d.totalChains > 0 {
		a.AvgChainLength = rank.Round2(float64(d.totalChainLength) / float64(d.totalChains))
	}

	for id, acc := range d.fast {
		if acc.responses < d.opts.MinFastResponses {
			continue
		}
		a.FastestRepeaters = append(a.FastestRepeaters, FastEntry{
			MemberID:    id,
			Responses:   acc.responses,
			MeanSeconds: rank.Round2(float64(acc.totalSeconds) / float64(acc.responses)),
		})
	}
	rank.SortStable(a.FastestRepeaters, func(x, y FastEntry) bool {
		if x.MeanSeconds != y.MeanSeconds {
			return x.MeanSeconds < y.MeanSeconds
		}
		return x.MemberID < y.MemberID
	})
	return a
}

// roleRank builds a ranking from role counts. With perMember == nil the
// percentage denominator is whole (total counted chains); otherwise each
// row is a rate over that member's own text message count.
func (d *detector) roleRank(counts map[int64]int, whole float64, perMember map[int64]int) []RoleEntry {
	entries := make([]RoleEntry, 0, len(counts))
	for id, c := range counts {
		denom := whole
		if perMember != nil {
			denom = float64(perMember[id])
		}
		entries = append(entries, RoleEntry{
			MemberID:   id,
			Count:      c,
			Percentage: rank.Percentage(float64(c), denom),
		})
	}
	rank.SortStable(entries, func(a, b RoleEntry) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.MemberID < b.MemberID
	})
	return entries
}

func (d *detector) hotRank() []HotContent {
	contents := make([]HotContent, 0, len(d.hot))
	for _, h := range d.hot {
		contents = append(contents, *h)
	}
	rank.SortStable(contents, func(a, b HotContent) bool {
		if a.MaxChainLength != b.MaxChainLength {
			return a.MaxChainLength > b.MaxChainLength
		}
		if a.OccurrenceCount != b.OccurrenceCount {
			return a.OccurrenceCount > b.OccurrenceCount
		}
		return a.Content < b.Content
	})
	return rank.TopN(contents, HotContentCap)
}
