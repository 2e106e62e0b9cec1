package testchat_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arasmand/chatpulse/internal/app"
	"github.com/arasmand/chatpulse/internal/domain/graph"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/temporal"
	"github.com/arasmand/chatpulse/internal/feed"
	"github.com/arasmand/chatpulse/internal/testchat"
	"github.com/arasmand/chatpulse/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given the synthetic chat generator", t, func() {
		cfg := testchat.DefaultConfig()
		cfg.Days = 5
		cfg.PerDay = 50

		Convey("When generating a corpus", func() {
			corpus := testchat.Generate(cfg)

			Convey("Then members and messages are produced", func() {
				So(corpus.SessionID, ShouldEqual, "sim")
				So(corpus.Members, ShouldHaveLength, 12)
				So(len(corpus.Messages), ShouldBeGreaterThan, 100)
			})

			Convey("And messages are ordered by (timestamp, id)", func() {
				for i := 1; i < len(corpus.Messages); i++ {
					prev, cur := corpus.Messages[i-1], corpus.Messages[i]
					ordered := prev.Timestamp < cur.Timestamp ||
						(prev.Timestamp == cur.Timestamp && prev.ID < cur.ID)
					if !ordered {
						So(ordered, ShouldBeTrue)
					}
				}
			})

			Convey("And message counts match the stream", func() {
				counts := make(map[int64]int)
				for _, m := range corpus.Messages {
					counts[m.SenderID]++
				}
				for _, member := range corpus.Members {
					So(member.MessageCount, ShouldEqual, counts[member.ID])
				}
			})
		})

		Convey("When generating twice with the same seed", func() {
			a := testchat.Generate(cfg)
			b := testchat.Generate(cfg)

			Convey("Then the message streams are identical", func() {
				So(a.Messages, ShouldResemble, b.Messages)
			})
		})

		Convey("When the seed differs", func() {
			a := testchat.Generate(cfg)
			other := cfg
			other.Seed = 2
			b := testchat.Generate(other)

			Convey("Then the streams diverge", func() {
				So(a.Messages, ShouldNotResemble, b.Messages)
			})
		})
	})
}

func TestVerifyFullPipeline(t *testing.T) {
	Convey("Given a generated corpus run through the service", t, func() {
		cfg := testchat.DefaultConfig()
		cfg.Days = 10
		cfg.PerDay = 80
		corpus := testchat.Generate(cfg)

		now := cfg.Start.AddDate(0, 0, cfg.Days)
		svc := app.New(app.WithAnalytics(app.Analytics{
			Temporal: temporal.Options{Location: time.UTC, Now: now},
		}))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		infos := make([]feed.MemberInfo, 0, len(corpus.Members))
		for _, m := range corpus.Members {
			infos = append(infos, feed.MemberInfo{ID: m.ID, PlatformID: m.PlatformID, DisplayName: m.DisplayName})
		}
		So(svc.Ingest(ctx, corpus.SessionID, infos, corpus.Messages), ShouldBeNil)

		Convey("When computing the full report", func() {
			report, err := svc.Report(ctx, corpus.SessionID, model.TimeFilter{})
			So(err, ShouldBeNil)

			Convey("Then every structural invariant holds", func() {
				So(testchat.Verify(report), ShouldBeEmpty)
			})

			Convey("And the generator produced enough signal for each analysis", func() {
				So(report.Graph.Links, ShouldNotBeEmpty)
				So(report.Repeat.TotalRepeatChains, ShouldBeGreaterThan, 0)
				So(report.Battle.TotalBattles, ShouldBeGreaterThan, 0)
				So(report.CheckIn.TotalDays, ShouldBeGreaterThan, 0)
				So(report.NightOwl.NightOwlRank, ShouldNotBeEmpty)
			})
		})
	})
}

func TestVerifyCatchesViolations(t *testing.T) {
	Convey("Given a report with a broken graph edge", t, func() {
		report := app.Report{}
		report.Graph.Links = []graph.Edge{{SourceID: 2, TargetID: 1, HybridScore: 0.5}}
		report.Graph.Stats.EdgeCount = 1

		Convey("Then verification reports the violation", func() {
			So(testchat.Verify(report), ShouldNotBeEmpty)
		})
	})
}
