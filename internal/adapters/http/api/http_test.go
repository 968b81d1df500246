package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/awaken-dev/awaken/internal/adapters/http/api"
	"github.com/awaken-dev/awaken/pkg/awaken"
	"github.com/awaken-dev/awaken/pkg/logger"
	"github.com/awaken-dev/awaken/pkg/metrics"
)

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) Stats() map[string]any {
	return m.stats
}

func newTestEngine(text api.TextProvider, stats api.StatsProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	_ = logger.Init(logger.WithOutput(&bytes.Buffer{}))

	server := api.NewServer(text, stats, logger.Get())
	engine := server.NewEngine()
	server.Register(context.Background(), engine)
	return engine
}

func greetingsServed(t *testing.T) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "awaken_api_greetings_served_total" && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func serve(engine http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIndexRoute(t *testing.T) {
	Convey("Given an API server with the default text provider", t, func() {
		engine := newTestEngine(nil, &mockStatsProvider{})

		Convey("When requesting GET /", func() {
			w := serve(engine, http.MethodGet, "/")

			Convey("Then it should return the shared greeting as plain text", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "Hello Hono!")
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
			})
		})

		Convey("When requesting GET / repeatedly", func() {
			first := serve(engine, http.MethodGet, "/")
			second := serve(engine, http.MethodGet, "/")
			third := serve(engine, http.MethodGet, "/")

			Convey("Then every response should be identical", func() {
				So(second.Code, ShouldEqual, first.Code)
				So(third.Code, ShouldEqual, first.Code)
				So(second.Body.String(), ShouldEqual, first.Body.String())
				So(third.Body.String(), ShouldEqual, first.Body.String())
			})
		})

		Convey("When requesting HEAD / over the network", func() {
			srv := httptest.NewServer(engine)
			defer srv.Close()

			before := greetingsServed(t)
			resp, err := srv.Client().Head(srv.URL + "/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)

			Convey("Then it should carry the GET headers without a body", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body, ShouldBeEmpty)
				So(resp.Header.Get("Content-Type"), ShouldEqual, "text/plain; charset=utf-8")
				So(resp.ContentLength, ShouldEqual, int64(len(awaken.IndexText())))
				So(greetingsServed(t), ShouldEqual, before)
			})
		})

		Convey("When posting to /", func() {
			w := serve(engine, http.MethodPost, "/")

			Convey("Then it should be rejected as method not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When requesting an unknown path", func() {
			w := serve(engine, http.MethodGet, "/unknown")

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given an API server with an injected text provider", t, func() {
		engine := newTestEngine(func() string { return "custom greeting" }, nil)

		Convey("When requesting GET /", func() {
			w := serve(engine, http.MethodGet, "/")

			Convey("Then it should return the provider's value", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "custom greeting")
			})
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	Convey("Given an API server with a stats provider", t, func() {
		stats := &mockStatsProvider{stats: map[string]any{"version": "1.0.0", "goroutines": 3}}
		engine := newTestEngine(nil, stats)

		Convey("When requesting /healthz", func() {
			w := serve(engine, http.MethodGet, "/healthz")

			Convey("Then it should report ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
			})
		})

		Convey("When requesting /metrics after serving the index", func() {
			serve(engine, http.MethodGet, "/")
			w := serve(engine, http.MethodGet, "/metrics")

			Convey("Then it should expose service metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "awaken_api_greetings_served_total")
				So(w.Body.String(), ShouldContainSubstring, "awaken_api_http_requests_total")
			})
		})

		Convey("When requesting /stats", func() {
			w := serve(engine, http.MethodGet, "/stats")

			Convey("Then it should return the provider's stats as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["version"], ShouldEqual, "1.0.0")
			})
		})
	})

	Convey("Given an API server without a stats provider", t, func() {
		engine := newTestEngine(nil, nil)

		Convey("When requesting /stats", func() {
			w := serve(engine, http.MethodGet, "/stats")

			Convey("Then it should return 503 with an error body", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "stats_unavailable")
			})
		})
	})
}

func TestServerRegisterWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		server := api.NewServer(nil, nil, nil)

		Convey("Then registering should panic", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
