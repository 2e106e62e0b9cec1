// Command chat-sim generates a synthetic chat session, runs every
// analysis over it in-process, and checks the structural invariants of
// the combined report. It exists for load experiments and as a smoke
// test for the whole pipeline.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/arasmand/chatpulse/internal/app"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/feed"
	"github.com/arasmand/chatpulse/internal/testchat"
	"github.com/arasmand/chatpulse/pkg/logger"
)

func main() {
	members := flag.Int("members", 0, "number of members (default 12)")
	days := flag.Int("days", 0, "number of active days (default 30)")
	perDay := flag.Int("per-day", 0, "average messages per day (default 200)")
	seed := flag.Int64("seed", 1, "generator seed")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := testchat.DefaultConfig()
	cfg.Members = *members
	cfg.Days = *days
	cfg.PerDay = *perDay
	cfg.Seed = *seed
	corpus := testchat.Generate(cfg)
	log.Info(ctx, "generated corpus",
		logger.Int("members", len(corpus.Members)),
		logger.Int("messages", len(corpus.Messages)),
	)

	svc := app.New(app.WithLogger(log))
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "service start failed", logger.Error(err))
		return
	}
	defer svc.Stop()

	infos := make([]feed.MemberInfo, 0, len(corpus.Members))
	for _, m := range corpus.Members {
		infos = append(infos, feed.MemberInfo{
			ID:          m.ID,
			PlatformID:  m.PlatformID,
			DisplayName: m.DisplayName,
		})
	}
	if err := svc.Ingest(ctx, corpus.SessionID, infos, corpus.Messages); err != nil {
		log.Error(ctx, "ingest failed", logger.Error(err))
		return
	}

	report, err := svc.Report(ctx, corpus.SessionID, model.TimeFilter{})
	if err != nil {
		log.Error(ctx, "report failed", logger.Error(err))
		return
	}

	log.Info(ctx, "report computed",
		logger.Int("graph_nodes", len(report.Graph.Nodes)),
		logger.Int("graph_edges", len(report.Graph.Links)),
		logger.Int("repeat_chains", report.Repeat.TotalRepeatChains),
		logger.Int("battles", report.Battle.TotalBattles),
		logger.Int("dragon_days", report.DragonKing.TotalDays),
		logger.Int("checkin_members", len(report.CheckIn.StreakRank)),
	)

	violations := testchat.Verify(report)
	for _, v := range violations {
		log.Error(ctx, "invariant violated", logger.Error(v))
	}
	if len(violations) > 0 {
		log.Error(ctx, "verification failed", logger.Int("violations", len(violations)))
		os.Exit(1)
	}
	log.Info(ctx, "all invariants hold")
}
