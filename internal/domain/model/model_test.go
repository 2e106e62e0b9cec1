package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arasmand/chatpulse/internal/domain/model"
)

func TestMessageType(t *testing.T) {
	Convey("Given the message type enum", t, func() {
		Convey("When converting to wire names", func() {
			So(model.TypeText.String(), ShouldEqual, "text")
			So(model.TypeImage.String(), ShouldEqual, "image")
			So(model.TypeSticker.String(), ShouldEqual, "sticker")
			So(model.TypeLink.String(), ShouldEqual, "link")
		})

		Convey("When parsing wire names", func() {
			So(model.ParseMessageType("text"), ShouldEqual, model.TypeText)
			So(model.ParseMessageType("video"), ShouldEqual, model.TypeVideo)

			Convey("Then unknown names map to other", func() {
				So(model.ParseMessageType("voice-note"), ShouldEqual, model.TypeOther)
				So(model.ParseMessageType(""), ShouldEqual, model.TypeOther)
			})
		})

		Convey("When the zero value is used", func() {
			var typ model.MessageType
			Convey("Then it should be text", func() {
				So(typ, ShouldEqual, model.TypeText)
			})
		})
	})
}

func TestAnalysisKind(t *testing.T) {
	Convey("Given the analysis kinds", t, func() {
		Convey("When listing them", func() {
			kinds := model.Kinds()
			So(kinds, ShouldHaveLength, 7)
			So(kinds[0], ShouldEqual, model.KindGraph)
		})

		Convey("When validating names", func() {
			for _, k := range model.Kinds() {
				So(model.ValidKind(k), ShouldBeTrue)
			}
			So(model.ValidKind("sentiment"), ShouldBeFalse)
			So(model.ValidKind(""), ShouldBeFalse)
		})
	})
}

func TestTimeFilter(t *testing.T) {
	Convey("Given a time filter", t, func() {
		Convey("When both bounds are zero", func() {
			f := model.TimeFilter{}
			So(f.Contains(0), ShouldBeTrue)
			So(f.Contains(1_700_000_000), ShouldBeTrue)
			So(f.Fingerprint(), ShouldEqual, "all")
		})

		Convey("When bounded", func() {
			f := model.TimeFilter{From: 100, To: 200}

			Convey("Then the window is half-open [From, To)", func() {
				So(f.Contains(99), ShouldBeFalse)
				So(f.Contains(100), ShouldBeTrue)
				So(f.Contains(199), ShouldBeTrue)
				So(f.Contains(200), ShouldBeFalse)
			})

			Convey("And the fingerprint encodes both bounds", func() {
				So(f.Fingerprint(), ShouldEqual, "100-200")
			})
		})

		Convey("When only one bound is set", func() {
			So(model.TimeFilter{From: 100}.Contains(50), ShouldBeFalse)
			So(model.TimeFilter{From: 100}.Contains(1e9), ShouldBeTrue)
			So(model.TimeFilter{To: 100}.Contains(50), ShouldBeTrue)
			So(model.TimeFilter{To: 100}.Contains(100), ShouldBeFalse)
		})
	})
}

func TestJobFingerprint(t *testing.T) {
	Convey("Given analysis jobs", t, func() {
		a := model.Job{JobID: "j1", SessionID: "s", Kind: model.KindGraph}
		b := model.Job{JobID: "j2", SessionID: "s", Kind: model.KindGraph}

		Convey("Then identical work shares a fingerprint regardless of job id", func() {
			So(a.Fingerprint(), ShouldEqual, b.Fingerprint())
			So(a.Fingerprint(), ShouldEqual, "s|graph|all")
		})

		Convey("And a different filter changes the fingerprint", func() {
			c := a
			c.Filter = model.TimeFilter{From: 1, To: 2}
			So(c.Fingerprint(), ShouldNotEqual, a.Fingerprint())
		})
	})
}
