// Package graph builds a scored, pruned social co-occurrence graph from
// an ordered chat message stream.
//
// Two senders co-occur when they appear near each other in the stream
// within a bounded lookahead window. Raw proximity scores are decayed by
// elapsed time, normalized against a chance baseline, blended into a
// hybrid score, and the top-K edges are kept.
package graph

import (
	"math"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/rank"
)

// Default graph configuration constants.
const (
	DefaultLookAhead         = 3
	DefaultDecaySeconds      = 120.0
	DefaultTopEdges          = 150
	DefaultLookAheadFactor   = 0.8
	DefaultPositionDecrement = 0.2

	baseNodeSize      = 20.0
	nodeSizeRange     = 35.0
	degreeSizeWeight  = 0.7
	messageSizeWeight = 0.3
	platformIDSuffix  = 4
)

// Options configures the graph build. LookAheadFactor and
// PositionDecrement are empirical constants carried over from the
// source data set; they are exposed here so deployments can tune them.
type Options struct {
	LookAhead         int
	DecaySeconds      float64
	TopEdges          int
	LookAheadFactor   float64
	PositionDecrement float64
}

// DefaultOptions returns the documented default configuration.
func DefaultOptions() Options {
	return Options{
		LookAhead:         DefaultLookAhead,
		DecaySeconds:      DefaultDecaySeconds,
		TopEdges:          DefaultTopEdges,
		LookAheadFactor:   DefaultLookAheadFactor,
		PositionDecrement: DefaultPositionDecrement,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.LookAhead <= 0 {
		o.LookAhead = d.LookAhead
	}
	if o.DecaySeconds <= 0 {
		o.DecaySeconds = d.DecaySeconds
	}
	if o.TopEdges <= 0 {
		o.TopEdges = d.TopEdges
	}
	if o.LookAheadFactor <= 0 {
		o.LookAheadFactor = d.LookAheadFactor
	}
	if o.PositionDecrement <= 0 {
		o.PositionDecrement = d.PositionDecrement
	}
	return o
}

// Node is one kept graph vertex. Nodes exist only for members touched by
// an edge that survived Top-K selection.
type Node struct {
	ID               int64   `json:"id"`
	DisplayName      string  `json:"display_name"`
	MessageCount     int     `json:"message_count"`
	Degree           float64 `json:"degree"`
	NormalizedDegree float64 `json:"normalized_degree"`
	VisualSize       int     `json:"visual_size"`
}

// Edge is one undirected kept edge. SourceID < TargetID always holds;
// the pair is canonical and self-loops never occur.
type Edge struct {
	SourceID          int64   `json:"source_id"`
	TargetID          int64   `json:"target_id"`
	RawScore          float64 `json:"raw_score"`
	ExpectedScore     float64 `json:"expected_score"`
	NormalizedScore   float64 `json:"normalized_score"`
	HybridScore       float64 `json:"hybrid_score"`
	CoOccurrenceCount int     `json:"co_occurrence_count"`
}

// Stats summarizes the build.
type Stats struct {
	TotalMembers    int `json:"total_members"`
	TotalMessages   int `json:"total_messages"`
	InvolvedMembers int `json:"involved_members"`
	EdgeCount       int `json:"edge_count"`
}

// Result is the immutable graph output.
type Result struct {
	Nodes        []Node  `json:"nodes"`
	Links        []Edge  `json:"links"`
	MaxLinkValue float64 `json:"max_link_value"`
	Stats        Stats   `json:"stats"`
}

// pairKey is the canonical unordered-pair map key: smaller id first.
type pairKey struct {
	lo, hi int64
}

func newPairKey(a, b int64) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

type pairAccum struct {
	raw        float64
	count      int
	expected   float64
	normalized float64
	hybrid     float64
}

// Build computes the co-occurrence graph. Degenerate inputs (fewer than
// two members or two messages) yield the empty result with whatever
// counts are available; Build never fails.
func Build(members []model.Member, messages []model.Message, opts Options) Result {
	opts = opts.normalized()

	empty := Result{
		Nodes: []Node{},
		Links: []Edge{},
		Stats: Stats{TotalMembers: len(members), TotalMessages: len(messages)},
	}
	if len(members) < 2 || len(messages) < 2 {
		return empty
	}

	memberByID := make(map[int64]model.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	// Pass 1: per-sender counts restricted to the member set.
	msgCount := make(map[int64]int, len(members))
	for _, msg := range messages {
		if _, ok := memberByID[msg.SenderID]; ok {
			msgCount[msg.SenderID]++
		}
	}
	totalMessages := len(messages)

	// Pass 2: pairwise raw scoring over the lookahead window. For each
	// anchor, scan forward until LookAhead distinct partners are found.
	// Repeat appearances of an already-counted partner are ignored.
	pairs := make(map[pairKey]*pairAccum)
	var order []pairKey // discovery order, kept for deterministic output
	for i, anchor := range messages {
		if _, ok := memberByID[anchor.SenderID]; !ok {
			continue
		}
		seen := make(map[int64]bool, opts.LookAhead)
		found := 0
		for j := i + 1; j < len(messages) && found < opts.LookAhead; j++ {
			partner := messages[j]
			if partner.SenderID == anchor.SenderID || seen[partner.SenderID] {
				continue
			}
			if _, ok := memberByID[partner.SenderID]; !ok {
				continue
			}
			seen[partner.SenderID] = true
			found++

			dt := float64(partner.Timestamp - anchor.Timestamp)
			decay := math.Exp(-dt / opts.DecaySeconds)
			position := 1 - opts.PositionDecrement*float64(found-1)
			key := newPairKey(anchor.SenderID, partner.SenderID)
			acc := pairs[key]
			if acc == nil {
				acc = &pairAccum{}
				pairs[key] = acc
				order = append(order, key)
			}
			acc.raw += decay * position
			acc.count++
		}
	}
	if len(pairs) == 0 {
		return empty
	}

	// Chance normalization against a uniform-interleaving null model,
	// scaled by the window size, then min-max blend into the hybrid score.
	lookAheadScale := float64(opts.LookAhead) * opts.LookAheadFactor
	var maxRaw, maxNorm float64
	for _, key := range order {
		acc := pairs[key]
		a, b := float64(msgCount[key.lo]), float64(msgCount[key.hi])
		acc.expected = a * b / float64(totalMessages) * lookAheadScale
		if acc.expected > 0 {
			acc.normalized = acc.raw / acc.expected
		}
		if acc.raw > maxRaw {
			maxRaw = acc.raw
		}
		if acc.normalized > maxNorm {
			maxNorm = acc.normalized
		}
	}
	for _, acc := range pairs {
		var h float64
		if maxRaw > 0 {
			h += 0.5 * acc.raw / maxRaw
		}
		if maxNorm > 0 {
			h += 0.5 * acc.normalized / maxNorm
		}
		acc.hybrid = h
	}

	// Top-K selection: hybrid desc, canonical pair key as the
	// deterministic secondary ordering so ties never depend on map order.
	rank.SortStable(order, func(a, b pairKey) bool {
		ha, hb := pairs[a].hybrid, pairs[b].hybrid
		if ha != hb {
			return ha > hb
		}
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		return a.hi < b.hi
	})
	kept := rank.TopN(order, opts.TopEdges)
	if len(kept) == 0 {
		return empty
	}

	links := make([]Edge, 0, len(kept))
	var maxLink float64
	degree := make(map[int64]float64)
	for _, key := range kept {
		acc := pairs[key]
		links = append(links, Edge{
			SourceID:          key.lo,
			TargetID:          key.hi,
			RawScore:          rank.Round2(acc.raw),
			ExpectedScore:     rank.Round2(acc.expected),
			NormalizedScore:   rank.Round2(acc.normalized),
			HybridScore:       rank.Round2(acc.hybrid),
			CoOccurrenceCount: acc.count,
		})
		if acc.hybrid > maxLink {
			maxLink = acc.hybrid
		}
		degree[key.lo] += acc.hybrid
		degree[key.hi] += acc.hybrid
	}

	nodes := buildNodes(memberByID, msgCount, degree)

	return Result{
		Nodes:        nodes,
		Links:        links,
		MaxLinkValue: rank.Round2(maxLink),
		Stats: Stats{
			TotalMembers:    len(members),
			TotalMessages:   totalMessages,
			InvolvedMembers: len(nodes),
			EdgeCount:       len(links),
		},
	}
}

// buildNodes constructs the node set for the kept edge endpoints,
// disambiguating colliding display names with a platform-id suffix.
func buildNodes(memberByID map[int64]model.Member, msgCount map[int64]int, degree map[int64]float64) []Node {
	ids := make([]int64, 0, len(degree))
	var maxDegree float64
	maxMsg := 0
	for id, d := range degree {
		ids = append(ids, id)
		if d > maxDegree {
			maxDegree = d
		}
		if msgCount[id] > maxMsg {
			maxMsg = msgCount[id]
		}
	}
	rank.SortStable(ids, func(a, b int64) bool { return a < b })

	nameCount := make(map[string]int, len(ids))
	for _, id := range ids {
		nameCount[memberByID[id].DisplayName]++
	}

	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		m := memberByID[id]
		name := m.DisplayName
		if nameCount[name] > 1 {
			name = name + "#" + tail(m.PlatformID, platformIDSuffix)
		}
		normDegree := 0.0
		if maxDegree > 0 {
			normDegree = degree[id] / maxDegree
		}
		msgShare := 0.0
		if maxMsg > 0 {
			msgShare = float64(msgCount[id]) / float64(maxMsg)
		}
		size := baseNodeSize + (degreeSizeWeight*normDegree+messageSizeWeight*msgShare)*nodeSizeRange
		nodes = append(nodes, Node{
			ID:               id,
			DisplayName:      name,
			MessageCount:     msgCount[id],
			Degree:           rank.Round2(degree[id]),
			NormalizedDegree: rank.Round2(normDegree),
			VisualSize:       int(math.Round(size)),
		})
	}
	return nodes
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
