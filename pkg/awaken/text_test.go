package awaken

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIndexText(t *testing.T) {
	Convey("Given the shared index text", t, func() {
		Convey("Then it should be the Hono greeting", func() {
			So(IndexText(), ShouldEqual, "Hello Hono!")
		})

		Convey("And repeated calls should return the same value", func() {
			first := IndexText()
			for i := 0; i < 10; i++ {
				So(IndexText(), ShouldEqual, first)
			}
		})
	})
}
