package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func decodeLines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		if err := json.Unmarshal([]byte(line), &rec); err == nil {
			out = append(out, rec)
		}
	}
	return out
}

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get should return a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail with ErrUnknownFormat", func() {
				So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "server started",
				String("addr", ":3000"),
				Int("port", 3000),
				Bool("metrics", true),
				Duration("timeout", time.Second),
			)
			recs := decodeLines(&buf)

			Convey("Then the record should carry message, fields and source", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0]["msg"], ShouldEqual, "server started")
				So(recs[0]["addr"], ShouldEqual, ":3000")
				So(recs[0]["metrics"], ShouldEqual, true)
				So(recs[0]["source"], ShouldContainSubstring, "logger_test.go:")
			})
		})

		Convey("When logging below the current level", func() {
			SetLevel(slog.LevelWarn)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "visible")

			Convey("Then only the enabled record should be written", func() {
				recs := decodeLines(&buf)
				So(recs, ShouldHaveLength, 1)
				So(recs[0]["msg"], ShouldEqual, "visible")
			})
		})

		Convey("When using a named logger", func() {
			Named("http").Error(ctx, "boom", Error(errors.New("bad")))
			recs := decodeLines(&buf)

			Convey("Then the name and error should be attached", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0]["logger"], ShouldEqual, "http")
				So(recs[0]["error"], ShouldEqual, "bad")
			})
		})
	})
}

func TestInitWithLevel(t *testing.T) {
	Convey("Given a logger initialized at debug level", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf), WithLevel(slog.LevelDebug)), ShouldBeNil)
		defer func() { _ = Init(WithOutput(io.Discard)) }()

		Convey("When logging a debug record", func() {
			Get().Debug(context.Background(), "details")

			Convey("Then the record should be written", func() {
				So(Level(), ShouldEqual, slog.LevelDebug)
				recs := decodeLines(&buf)
				So(recs, ShouldHaveLength, 1)
				So(recs[0]["level"], ShouldEqual, "DEBUG")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(Init(WithOutput(&bytes.Buffer{})), ShouldBeNil)

		cases := map[string]slog.Level{
			"debug":   slog.LevelDebug,
			"INFO":    slog.LevelInfo,
			"":        slog.LevelInfo,
			"warn":    slog.LevelWarn,
			"Warning": slog.LevelWarn,
			" error ": slog.LevelError,
		}

		Convey("Then known names should set the level", func() {
			for name, want := range cases {
				So(SetLevelString(name), ShouldBeNil)
				So(Level(), ShouldEqual, want)
			}
		})

		Convey("And unknown names should be rejected", func() {
			err := SetLevelString("verbose")
			So(errors.Is(err, ErrUnknownLevel), ShouldBeTrue)
		})
	})
}
