package temporal_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/domain/temporal"
)

func at(t time.Time, sender int64, id int64) model.Message {
	return model.Message{ID: id, SenderID: sender, Timestamp: t.Unix(), Content: "x", Type: model.TypeText}
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func utcOptions(now time.Time) temporal.Options {
	return temporal.Options{Location: time.UTC, Now: now}
}

func TestDragonKing(t *testing.T) {
	Convey("Given the dragon king analysis", t, func() {
		Convey("When one member dominates each day", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 10, 0), 1, 1),
				at(date(2024, 1, 1, 11, 0), 1, 2),
				at(date(2024, 1, 1, 12, 0), 2, 3),
				at(date(2024, 1, 2, 10, 0), 2, 4),
				at(date(2024, 1, 2, 11, 0), 2, 5),
			}
			a := temporal.DragonKing(msgs, utcOptions(date(2024, 1, 3, 0, 0)))

			Convey("Then each day credits its top sender", func() {
				So(a.TotalDays, ShouldEqual, 2)
				So(a.Rank, ShouldHaveLength, 2)
				So(a.Rank[0].Days, ShouldEqual, 1)
				So(a.Rank[0].Percentage, ShouldEqual, 50.0)
			})
		})

		Convey("When two members tie on a day", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 10, 0), 1, 1),
				at(date(2024, 1, 1, 11, 0), 2, 2),
			}
			a := temporal.DragonKing(msgs, utcOptions(date(2024, 1, 2, 0, 0)))

			Convey("Then both are credited for that date", func() {
				So(a.Rank, ShouldHaveLength, 2)
				So(a.Rank[0].Days, ShouldEqual, 1)
				So(a.Rank[1].Days, ShouldEqual, 1)
			})
		})

		Convey("When there are no messages", func() {
			a := temporal.DragonKing(nil, utcOptions(date(2024, 1, 1, 0, 0)))
			So(a.Rank, ShouldBeEmpty)
			So(a.TotalDays, ShouldEqual, 0)
		})
	})
}

func TestNightOwl(t *testing.T) {
	Convey("Given the night owl analysis", t, func() {
		Convey("When a message lands at 00:30", func() {
			msgs := []model.Message{
				at(date(2024, 1, 2, 0, 30), 1, 1),
			}
			a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 10, 12, 0)))

			Convey("Then it counts as night activity in the 0 bucket", func() {
				So(a.NightOwlRank, ShouldHaveLength, 1)
				entry := a.NightOwlRank[0]
				So(entry.NightMessages, ShouldEqual, 1)
				So(entry.HourBreakdown["0"], ShouldEqual, 1)
				So(entry.Percentage, ShouldEqual, 100.0)
			})
		})

		Convey("When a message lands exactly at 05:00", func() {
			msgs := []model.Message{
				at(date(2024, 1, 2, 5, 0), 1, 1),
			}
			a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 10, 12, 0)))

			Convey("Then it is outside the night window", func() {
				So(a.NightOwlRank, ShouldBeEmpty)
			})
		})

		Convey("When messages at 23:30 and next-day 01:00 occur", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 23, 30), 1, 1),
				at(date(2024, 1, 2, 1, 0), 1, 2),
			}
			a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 10, 12, 0)))

			Convey("Then both belong to the same overnight session", func() {
				So(a.ConsecutiveRecords, ShouldHaveLength, 1)
				rec := a.ConsecutiveRecords[0]
				So(rec.TotalDays, ShouldEqual, 1)
				So(rec.MaxNights, ShouldEqual, 1)
			})

			Convey("And the hour buckets split 23 from 1", func() {
				b := a.NightOwlRank[0].HourBreakdown
				So(b["23"], ShouldEqual, 1)
				So(b["1"], ShouldEqual, 1)
			})
		})

		Convey("When night activity spans consecutive overnight sessions", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 23, 10), 1, 1),
				at(date(2024, 1, 2, 23, 10), 1, 2),
				at(date(2024, 1, 3, 23, 10), 1, 3),
			}

			Convey("And now is the morning after the last night", func() {
				a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 4, 9, 0)))

				Convey("Then the current streak is alive", func() {
					rec := a.ConsecutiveRecords[0]
					So(rec.MaxNights, ShouldEqual, 3)
					So(rec.CurNights, ShouldEqual, 3)
				})
			})

			Convey("And now is a week later", func() {
				a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 11, 9, 0)))

				Convey("Then the current streak is over", func() {
					rec := a.ConsecutiveRecords[0]
					So(rec.MaxNights, ShouldEqual, 3)
					So(rec.CurNights, ShouldEqual, 0)
				})
			})
		})

		Convey("When computing the champion score", func() {
			// Member 1: 2 night messages, last speaker on 2 dates, max
			// consecutive 2 -> 2*1 + 2*10 + 2*20 = 62.
			msgs := []model.Message{
				at(date(2024, 1, 1, 23, 30), 1, 1),
				at(date(2024, 1, 2, 23, 30), 1, 2),
			}
			a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 10, 12, 0)))

			Convey("Then weights are night*1 + last*10 + streak*20", func() {
				So(a.Champions, ShouldHaveLength, 1)
				So(a.Champions[0].Score, ShouldEqual, 62)
			})
		})

		Convey("When tracking speakers of the day", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 8, 0), 1, 1),
				at(date(2024, 1, 1, 22, 0), 2, 2),
				at(date(2024, 1, 2, 7, 30), 2, 3),
			}
			a := temporal.NightOwl(msgs, utcOptions(date(2024, 1, 10, 12, 0)))

			Convey("Then first and last credits go to the right members", func() {
				So(a.TotalDays, ShouldEqual, 2)
				So(a.FirstSpeakerRank[0].MemberID, ShouldEqual, 1)
				So(a.FirstSpeakerRank[0].Count, ShouldEqual, 1)
				So(a.LastSpeakerRank[0].MemberID, ShouldEqual, 2)
				So(a.LastSpeakerRank[0].Count, ShouldEqual, 2)
				So(a.LastSpeakerRank[0].Percentage, ShouldEqual, 100.0)
			})

			Convey("And times are formatted as HH:MM", func() {
				So(a.FirstSpeakerRank[0].AverageTime, ShouldEqual, "08:00")
				So(a.LastSpeakerRank[0].ExtremeTime, ShouldEqual, "22:00")
			})
		})
	})
}

func TestCheckIn(t *testing.T) {
	Convey("Given the check-in analysis", t, func() {
		Convey("When a member is active on 01,02,03 and 05", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 10, 0), 1, 1),
				at(date(2024, 1, 2, 10, 0), 1, 2),
				at(date(2024, 1, 3, 10, 0), 1, 3),
				at(date(2024, 1, 5, 10, 0), 1, 4),
			}
			a := temporal.CheckIn(msgs, utcOptions(date(2024, 1, 6, 0, 0)))

			Convey("Then the longest streak is the first three days", func() {
				So(a.StreakRank, ShouldHaveLength, 1)
				s := a.StreakRank[0]
				So(s.MaxStreak, ShouldEqual, 3)
				So(s.MaxStreakStart, ShouldEqual, "2024-01-01")
				So(s.MaxStreakEnd, ShouldEqual, "2024-01-03")
				So(s.ActiveDays, ShouldEqual, 4)
			})

			Convey("And the current streak runs from the global last date", func() {
				So(a.StreakRank[0].CurrentStreak, ShouldEqual, 1)
			})
		})

		Convey("When another member is active later", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 10, 0), 1, 1),
				at(date(2024, 1, 2, 10, 0), 1, 2),
				at(date(2024, 1, 3, 10, 0), 1, 3),
				at(date(2024, 1, 4, 10, 0), 2, 4),
			}
			a := temporal.CheckIn(msgs, utcOptions(date(2024, 1, 5, 0, 0)))

			Convey("Then the earlier member's current streak is zero", func() {
				var m1 temporal.StreakEntry
				for _, s := range a.StreakRank {
					if s.MemberID == 1 {
						m1 = s
					}
				}
				So(m1.MaxStreak, ShouldEqual, 3)
				So(m1.CurrentStreak, ShouldEqual, 0)
			})
		})

		Convey("When loyalty is ranked", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 10, 0), 1, 1),
				at(date(2024, 1, 2, 10, 0), 1, 2),
				at(date(2024, 1, 1, 11, 0), 2, 3),
			}
			a := temporal.CheckIn(msgs, utcOptions(date(2024, 1, 3, 0, 0)))

			Convey("Then shares are relative to the most active member", func() {
				So(a.LoyaltyRank[0].MemberID, ShouldEqual, 1)
				So(a.LoyaltyRank[0].Percentage, ShouldEqual, 100.0)
				So(a.LoyaltyRank[1].Percentage, ShouldEqual, 50.0)
				So(a.TotalDays, ShouldEqual, 2)
			})
		})
	})
}

func TestDiving(t *testing.T) {
	Convey("Given the diving analysis", t, func() {
		now := date(2024, 1, 10, 12, 0)

		Convey("When members went silent at different times", func() {
			msgs := []model.Message{
				at(date(2024, 1, 1, 12, 0), 1, 1),
				at(date(2024, 1, 8, 12, 0), 2, 2),
				at(date(2024, 1, 10, 11, 0), 3, 3),
			}
			a := temporal.Diving(msgs, utcOptions(now))

			Convey("Then silence is ranked longest first", func() {
				So(a.Rank, ShouldHaveLength, 3)
				So(a.Rank[0].MemberID, ShouldEqual, 1)
				So(a.Rank[0].DaysSilent, ShouldEqual, 9)
				So(a.Rank[1].MemberID, ShouldEqual, 2)
				So(a.Rank[1].DaysSilent, ShouldEqual, 2)
				So(a.Rank[2].DaysSilent, ShouldEqual, 0)
			})
		})

		Convey("When a member's last message is after now", func() {
			msgs := []model.Message{
				at(date(2024, 1, 11, 12, 0), 1, 1),
			}
			a := temporal.Diving(msgs, utcOptions(now))

			Convey("Then silence clamps at zero", func() {
				So(a.Rank[0].DaysSilent, ShouldEqual, 0)
			})
		})
	})
}
