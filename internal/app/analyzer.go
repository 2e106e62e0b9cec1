package app

import (
	"context"
	"fmt"
	"time"

	"github.com/arasmand/chatpulse/internal/domain/battle"
	"github.com/arasmand/chatpulse/internal/domain/graph"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/repeat"
	"github.com/arasmand/chatpulse/internal/domain/temporal"
	"github.com/arasmand/chatpulse/internal/feed"
)

// Analytics bundles per-analysis configuration. The temporal Options
// carry a zero Now so every invocation resolves "today" at run time.
type Analytics struct {
	Graph    graph.Options
	Repeat   repeat.Options
	Battle   battle.Options
	Temporal temporal.Options
}

// DefaultAnalytics returns the documented default configuration.
func DefaultAnalytics() Analytics {
	return Analytics{
		Graph:    graph.DefaultOptions(),
		Repeat:   repeat.DefaultOptions(),
		Battle:   battle.DefaultOptions(),
		Temporal: temporal.DefaultOptions(),
	}
}

// analyzer binds the pure analytics to a feed, implementing the worker
// Runner contract. It holds no mutable state of its own.
type analyzer struct {
	feed feed.Feed
	cfg  Analytics
}

func newAnalyzer(f feed.Feed, cfg Analytics) *analyzer {
	return &analyzer{feed: f, cfg: cfg}
}

// Run fetches the session snapshot and dispatches to the requested
// analysis. The feed owns ordering; analytics are pure over the slices.
func (a *analyzer) Run(ctx context.Context, job model.Job) (any, error) {
	messages, err := a.feed.Messages(ctx, job.SessionID, job.Filter)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	switch job.Kind {
	case model.KindGraph:
		members, err := a.feed.Members(ctx, job.SessionID)
		if err != nil {
			return nil, fmt.Errorf("load members: %w", err)
		}
		return graph.Build(members, messages, a.cfg.Graph), nil
	case model.KindRepeat:
		return repeat.Detect(messages, a.cfg.Repeat), nil
	case model.KindNightOwl:
		return temporal.NightOwl(messages, a.temporalNow()), nil
	case model.KindDragonKing:
		return temporal.DragonKing(messages, a.temporalNow()), nil
	case model.KindCheckIn:
		return temporal.CheckIn(messages, a.temporalNow()), nil
	case model.KindDiving:
		return temporal.Diving(messages, a.temporalNow()), nil
	case model.KindBattle:
		return battle.Detect(messages, a.cfg.Battle), nil
	default:
		return nil, fmt.Errorf("unknown analysis kind: %s", job.Kind)
	}
}

// temporalNow stamps the configured temporal options with the current
// instant so a whole report shares one "now".
func (a *analyzer) temporalNow() temporal.Options {
	opts := a.cfg.Temporal
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return opts
}
