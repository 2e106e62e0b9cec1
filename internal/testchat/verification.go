package testchat

import (
	"fmt"

	"github.com/arasmand/chatpulse/internal/app"
	"github.com/arasmand/chatpulse/internal/domain/battle"
	"github.com/arasmand/chatpulse/internal/domain/graph"
	"github.com/arasmand/chatpulse/internal/domain/repeat"
)

// Verify checks the structural invariants every report must satisfy
// regardless of input. It returns the list of violations; an empty
// slice means the report is consistent.
func Verify(report app.Report) []error {
	var errs []error
	errs = append(errs, verifyGraph(report.Graph)...)
	errs = append(errs, verifyRepeat(report.Repeat)...)
	errs = append(errs, verifyBattle(report.Battle)...)

	totalDragonDays := 0
	for _, e := range report.DragonKing.Rank {
		totalDragonDays += e.Days
	}
	if report.DragonKing.TotalDays > 0 && totalDragonDays < report.DragonKing.TotalDays {
		errs = append(errs, fmt.Errorf("dragon king: %d credited days < %d dated days",
			totalDragonDays, report.DragonKing.TotalDays))
	}

	for _, e := range report.CheckIn.StreakRank {
		if e.CurrentStreak > e.MaxStreak {
			errs = append(errs, fmt.Errorf("check in: member %d current streak %d exceeds max %d",
				e.MemberID, e.CurrentStreak, e.MaxStreak))
		}
		if e.MaxStreak > e.ActiveDays {
			errs = append(errs, fmt.Errorf("check in: member %d max streak %d exceeds active days %d",
				e.MemberID, e.MaxStreak, e.ActiveDays))
		}
	}

	for _, e := range report.Diving.Rank {
		if e.DaysSilent < 0 {
			errs = append(errs, fmt.Errorf("diving: member %d negative silence %d", e.MemberID, e.DaysSilent))
		}
	}

	return errs
}

func verifyGraph(g graph.Result) []error {
	var errs []error
	nodeIDs := make(map[int64]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeIDs[n.ID] = true
		if n.NormalizedDegree < 0 || n.NormalizedDegree > 1 {
			errs = append(errs, fmt.Errorf("graph: node %d normalized degree %.2f out of [0,1]",
				n.ID, n.NormalizedDegree))
		}
	}
	for _, l := range g.Links {
		if l.SourceID >= l.TargetID {
			errs = append(errs, fmt.Errorf("graph: edge (%d,%d) not canonical", l.SourceID, l.TargetID))
		}
		if !nodeIDs[l.SourceID] || !nodeIDs[l.TargetID] {
			errs = append(errs, fmt.Errorf("graph: edge (%d,%d) references missing node", l.SourceID, l.TargetID))
		}
		if l.HybridScore < 0 || l.HybridScore > 1 {
			errs = append(errs, fmt.Errorf("graph: edge (%d,%d) hybrid score %.2f out of [0,1]",
				l.SourceID, l.TargetID, l.HybridScore))
		}
	}
	if len(g.Links) != g.Stats.EdgeCount {
		errs = append(errs, fmt.Errorf("graph: stats edge count %d != %d links", g.Stats.EdgeCount, len(g.Links)))
	}
	if len(g.Nodes) != g.Stats.InvolvedMembers {
		errs = append(errs, fmt.Errorf("graph: stats involved %d != %d nodes", g.Stats.InvolvedMembers, len(g.Nodes)))
	}
	return errs
}

func verifyRepeat(r repeat.Analysis) []error {
	var errs []error
	chains := 0
	for length, count := range r.ChainLengthDistribution {
		if length < repeat.MinChainLength {
			errs = append(errs, fmt.Errorf("repeat: counted chain of length %d below minimum", length))
		}
		chains += count
	}
	if chains != r.TotalRepeatChains {
		errs = append(errs, fmt.Errorf("repeat: distribution sums to %d chains, total says %d",
			chains, r.TotalRepeatChains))
	}
	origins := 0
	for _, e := range r.Originators {
		origins += e.Count
	}
	if origins != r.TotalRepeatChains {
		errs = append(errs, fmt.Errorf("repeat: %d originator credits for %d chains", origins, r.TotalRepeatChains))
	}
	return errs
}

func verifyBattle(b battle.Analysis) []error {
	var errs []error
	for i, bt := range b.TopBattles {
		if bt.TotalImages < battle.DefaultMinLength {
			errs = append(errs, fmt.Errorf("battle %d: only %d images", i, bt.TotalImages))
		}
		if bt.ParticipantCount < battle.DefaultMinParticipants {
			errs = append(errs, fmt.Errorf("battle %d: only %d participants", i, bt.ParticipantCount))
		}
		if bt.EndTimestamp < bt.StartTimestamp {
			errs = append(errs, fmt.Errorf("battle %d: ends before it starts", i))
		}
		sum := 0
		for _, p := range bt.Participants {
			sum += p.ImageCount
		}
		if sum != bt.TotalImages {
			errs = append(errs, fmt.Errorf("battle %d: participant counts sum to %d of %d images",
				i, sum, bt.TotalImages))
		}
	}
	if len(b.TopBattles) > b.TotalBattles {
		errs = append(errs, fmt.Errorf("battle: %d kept battles exceed %d total", len(b.TopBattles), b.TotalBattles))
	}
	return errs
}
