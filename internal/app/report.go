package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arasmand/chatpulse/internal/domain/battle"
	"github.com/arasmand/chatpulse/internal/domain/graph"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/repeat"
	"github.com/arasmand/chatpulse/internal/domain/temporal"
	"github.com/arasmand/chatpulse/pkg/metrics"
)

// Report bundles every analysis of one session snapshot. All parts are
// computed from the same feed snapshot and share one "now".
type Report struct {
	SessionID  string                      `json:"session_id"`
	ComputedAt time.Time                   `json:"computed_at"`
	Graph      graph.Result                `json:"graph"`
	Repeat     repeat.Analysis             `json:"repeat"`
	NightOwl   temporal.NightOwlAnalysis   `json:"night_owl"`
	DragonKing temporal.DragonKingAnalysis `json:"dragon_king"`
	CheckIn    temporal.CheckInAnalysis    `json:"check_in"`
	Diving     temporal.DivingAnalysis     `json:"diving"`
	Battle     battle.Analysis             `json:"battle"`
}

// Report computes all analyses for a session concurrently. Each
// analysis is an independent pure pass over the same immutable snapshot,
// so fanning out needs no coordination beyond the errgroup.
func (s *Service) Report(ctx context.Context, sessionID string, filter model.TimeFilter) (Report, error) {
	members, err := s.analyzer.feed.Members(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("load members: %w", err)
	}
	messages, err := s.analyzer.feed.Messages(ctx, sessionID, filter)
	if err != nil {
		return Report{}, fmt.Errorf("load messages: %w", err)
	}

	now := time.Now()
	topts := s.analytics.Temporal
	if topts.Now.IsZero() {
		topts.Now = now
	}

	report := Report{SessionID: sessionID, ComputedAt: now}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Graph = graph.Build(members, messages, s.analytics.Graph)
		metrics.RecordAnalysis(string(model.KindGraph))
		return nil
	})
	g.Go(func() error {
		report.Repeat = repeat.Detect(messages, s.analytics.Repeat)
		metrics.RecordAnalysis(string(model.KindRepeat))
		return nil
	})
	g.Go(func() error {
		report.NightOwl = temporal.NightOwl(messages, topts)
		metrics.RecordAnalysis(string(model.KindNightOwl))
		return nil
	})
	g.Go(func() error {
		report.DragonKing = temporal.DragonKing(messages, topts)
		metrics.RecordAnalysis(string(model.KindDragonKing))
		return nil
	})
	g.Go(func() error {
		report.CheckIn = temporal.CheckIn(messages, topts)
		metrics.RecordAnalysis(string(model.KindCheckIn))
		return nil
	})
	g.Go(func() error {
		report.Diving = temporal.Diving(messages, topts)
		metrics.RecordAnalysis(string(model.KindDiving))
		return nil
	})
	g.Go(func() error {
		report.Battle = battle.Detect(messages, s.analytics.Battle)
		metrics.RecordAnalysis(string(model.KindBattle))
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}
