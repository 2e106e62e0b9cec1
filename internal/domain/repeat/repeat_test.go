package repeat_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/repeat"
)

func text(id, sender, ts int64, content string) model.Message {
	return model.Message{ID: id, SenderID: sender, Timestamp: ts, Content: content, Type: model.TypeText}
}

func TestDetect(t *testing.T) {
	Convey("Given the repeat chain detector", t, func() {
		Convey("When three distinct senders echo the same content", func() {
			msgs := []model.Message{
				text(1, 1, 0, "hi"),
				text(2, 2, 5, "hi"),
				text(3, 3, 10, "hi"),
				text(4, 4, 15, "bye"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then one chain is counted with the three roles assigned", func() {
				So(a.TotalRepeatChains, ShouldEqual, 1)
				So(a.Originators, ShouldHaveLength, 1)
				So(a.Originators[0].MemberID, ShouldEqual, 1)
				So(a.Initiators[0].MemberID, ShouldEqual, 2)
				So(a.Breakers[0].MemberID, ShouldEqual, 4)
			})

			Convey("And the distribution and average reflect the chain", func() {
				So(a.ChainLengthDistribution[3], ShouldEqual, 1)
				So(a.AvgChainLength, ShouldEqual, 3.0)
			})

			Convey("And the hot content records the chain head", func() {
				So(a.HotContents, ShouldHaveLength, 1)
				hot := a.HotContents[0]
				So(hot.Content, ShouldEqual, "hi")
				So(hot.MaxChainLength, ShouldEqual, 3)
				So(hot.OriginatorID, ShouldEqual, 1)
				So(hot.RepresentativeMsgID, ShouldEqual, 1)
			})
		})

		Convey("When a chain ends at end-of-stream", func() {
			msgs := []model.Message{
				text(1, 1, 0, "go"),
				text(2, 2, 5, "go"),
				text(3, 3, 10, "go"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then it is counted with no breaker credited", func() {
				So(a.TotalRepeatChains, ShouldEqual, 1)
				So(a.Breakers, ShouldBeEmpty)
			})
		})

		Convey("When the same sender repeats immediately", func() {
			msgs := []model.Message{
				text(1, 1, 0, "hi"),
				text(2, 1, 2, "hi"), // no-op: same sender as the chain tail
				text(3, 2, 5, "hi"),
				text(4, 3, 8, "hi"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then the duplicate neither extends nor breaks the chain", func() {
				So(a.TotalRepeatChains, ShouldEqual, 1)
				So(a.ChainLengthDistribution[3], ShouldEqual, 1)
			})
		})

		Convey("When a run is shorter than three entries", func() {
			msgs := []model.Message{
				text(1, 1, 0, "hi"),
				text(2, 2, 5, "hi"),
				text(3, 3, 10, "other"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then nothing is counted", func() {
				So(a.TotalRepeatChains, ShouldEqual, 0)
				So(a.Originators, ShouldBeEmpty)
				So(a.HotContents, ShouldBeEmpty)
			})
		})

		Convey("When non-text and blank messages are interleaved", func() {
			msgs := []model.Message{
				text(1, 1, 0, "hi"),
				{ID: 2, SenderID: 9, Timestamp: 2, Type: model.TypeImage},
				text(3, 2, 5, "hi"),
				text(4, 3, 8, "  "),
				text(5, 3, 10, "hi"),
				text(6, 4, 15, "done"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then they are skipped without affecting the chain", func() {
				So(a.TotalRepeatChains, ShouldEqual, 1)
				So(a.ChainLengthDistribution[3], ShouldEqual, 1)
				So(a.Breakers[0].MemberID, ShouldEqual, 4)
			})
		})

		Convey("When percentages are computed", func() {
			msgs := []model.Message{
				text(1, 1, 0, "a"), text(2, 2, 1, "a"), text(3, 3, 2, "a"),
				text(4, 1, 10, "b"), text(5, 2, 11, "b"), text(6, 3, 12, "b"),
				text(7, 4, 20, "x"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then role shares use the chain total as denominator", func() {
				So(a.TotalRepeatChains, ShouldEqual, 2)
				So(a.Originators[0].MemberID, ShouldEqual, 1)
				So(a.Originators[0].Count, ShouldEqual, 2)
				So(a.Originators[0].Percentage, ShouldEqual, 100.0)
			})

			Convey("And role rates use the member's own text count", func() {
				// Member 1 originated 2 chains over 2 text messages.
				So(a.OriginatorRates[0].MemberID, ShouldEqual, 1)
				So(a.OriginatorRates[0].Percentage, ShouldEqual, 100.0)
			})
		})
	})
}

func TestFastestRepeaters(t *testing.T) {
	Convey("Given the fastest-repeater ranking", t, func() {
		Convey("When a member responds fast enough often enough", func() {
			var msgs []model.Message
			var id int64
			ts := int64(0)
			// Five chains of (1, 2, 3); member 2 always answers in 4s,
			// member 3 in 30s (outside the window).
			for c := 0; c < 5; c++ {
				content := string(rune('a' + c))
				id++
				msgs = append(msgs, text(id, 1, ts, content))
				id++
				msgs = append(msgs, text(id, 2, ts+4, content))
				id++
				msgs = append(msgs, text(id, 3, ts+34, content))
				ts += 100
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then only the fast member qualifies", func() {
				So(a.FastestRepeaters, ShouldHaveLength, 1)
				fast := a.FastestRepeaters[0]
				So(fast.MemberID, ShouldEqual, 2)
				So(fast.Responses, ShouldEqual, 5)
				So(fast.MeanSeconds, ShouldEqual, 4.0)
			})
		})

		Convey("When responses are fast but too few", func() {
			msgs := []model.Message{
				text(1, 1, 0, "hi"),
				text(2, 2, 2, "hi"),
				text(3, 3, 4, "hi"),
			}
			a := repeat.Detect(msgs, repeat.Options{})

			Convey("Then nobody qualifies", func() {
				So(a.FastestRepeaters, ShouldBeEmpty)
			})
		})
	})
}
