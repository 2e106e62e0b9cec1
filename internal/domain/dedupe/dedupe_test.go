package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arasmand/chatpulse/internal/domain/dedupe"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a fresh fingerprint", func() {
			seen := d.SeenAndRecord(ctx, "s|graph|all")

			Convey("Then it was not seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports it as seen", func() {
				So(d.SeenAndRecord(ctx, "s|graph|all"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording distinct fingerprints", func() {
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "b"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 2)
		})
	})
}

func TestUnrecord(t *testing.T) {
	Convey("Given a deduper with recorded fingerprints", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()
		d.SeenAndRecord(ctx, "a")

		Convey("When unrecording one", func() {
			d.Unrecord(ctx, "a")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown fingerprint", func() {
			Convey("Then nothing changes", func() {
				d.Unrecord(ctx, "missing")
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 entries", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When recording past the bound", func() {
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("fp-%d", i))
			}

			Convey("Then the oldest entry is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "fp-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "fp-3"), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When many goroutines race on the same fingerprint", func() {
			const goroutines = 32
			firsts := make(chan bool, goroutines)
			var wg sync.WaitGroup
			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "contested") {
						firsts <- true
					}
				}()
			}
			wg.Wait()
			close(firsts)

			Convey("Then exactly one wins", func() {
				So(len(firsts), ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
