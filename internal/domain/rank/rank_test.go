package rank_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arasmand/chatpulse/internal/domain/rank"
)

func TestRound2(t *testing.T) {
	Convey("Given the two-decimal rounding helper", t, func() {
		Convey("When rounding typical values", func() {
			So(rank.Round2(1.234), ShouldEqual, 1.23)
			So(rank.Round2(1.235), ShouldEqual, 1.24)
			So(rank.Round2(0), ShouldEqual, 0)
			So(rank.Round2(-1.005), ShouldEqual, -1.0)
		})

		Convey("When the value already has two decimals", func() {
			So(rank.Round2(99.99), ShouldEqual, 99.99)
		})
	})
}

func TestPercentage(t *testing.T) {
	Convey("Given the percentage helper", t, func() {
		Convey("When whole is non-zero", func() {
			So(rank.Percentage(1, 3), ShouldEqual, 33.33)
			So(rank.Percentage(2, 4), ShouldEqual, 50.0)
			So(rank.Percentage(5, 5), ShouldEqual, 100.0)
		})

		Convey("When whole is zero", func() {
			Convey("Then it should return 0 instead of NaN", func() {
				So(rank.Percentage(7, 0), ShouldEqual, 0)
			})
		})
	})
}

func TestTopN(t *testing.T) {
	Convey("Given the Top-N truncation helper", t, func() {
		s := []int{5, 4, 3, 2, 1}

		Convey("When n is smaller than the slice", func() {
			So(rank.TopN(s, 3), ShouldResemble, []int{5, 4, 3})
		})

		Convey("When n covers the whole slice", func() {
			So(rank.TopN(s, 10), ShouldResemble, s)
		})

		Convey("When n is zero or negative", func() {
			Convey("Then everything is kept", func() {
				So(rank.TopN(s, 0), ShouldResemble, s)
				So(rank.TopN(s, -1), ShouldResemble, s)
			})
		})
	})
}

func TestSortStable(t *testing.T) {
	Convey("Given the stable sort wrapper", t, func() {
		type row struct {
			score int
			id    int64
		}
		rows := []row{{2, 3}, {1, 1}, {2, 2}, {3, 4}}

		Convey("When sorting descending with an id tie-break", func() {
			rank.SortStable(rows, func(a, b row) bool {
				if a.score != b.score {
					return a.score > b.score
				}
				return a.id < b.id
			})

			Convey("Then ties resolve by ascending id", func() {
				So(rows, ShouldResemble, []row{{3, 4}, {2, 2}, {2, 3}, {1, 1}})
			})
		})
	})
}
