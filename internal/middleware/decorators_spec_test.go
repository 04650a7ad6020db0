package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// guards returns units named after pass/fail that guard on a fixed outcome.
func guards(outcomes map[string]bool, names ...string) []chain.Unit[int, bool] {
	units := make([]chain.Unit[int, bool], len(names))
	for i, name := range names {
		pass := outcomes[name]
		units[i] = chain.Unit[int, bool]{
			Name: name,
			Link: chain.Guard(func(context.Context, int) bool { return pass }),
		}
	}
	return units
}

var _ = Describe("Logging", func() {
	It("logs each reached unit with its delegation outcome", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		h := chain.Assemble(chain.Accept[int](),
			guards(map[string]bool{"a": true, "b": false, "c": true}, "a", "b", "c"),
			Logging[int, bool](logger, "test"))

		ctx := WithRunID(context.Background(), "run-1")
		Expect(h(ctx, 1)).To(BeFalse())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(2))

		type record struct {
			Unit      string `json:"unit"`
			Chain     string `json:"chain"`
			RunID     string `json:"run_id"`
			Delegated bool   `json:"delegated"`
		}
		var recs []record
		for _, line := range lines {
			var r record
			Expect(json.Unmarshal([]byte(line), &r)).To(Succeed())
			recs = append(recs, r)
		}
		// b finishes first because a's log line is written after the rest of the chain returns.
		Expect(recs[0]).To(Equal(record{Unit: "b", Chain: "test", RunID: "run-1", Delegated: false}))
		Expect(recs[1]).To(Equal(record{Unit: "a", Chain: "test", RunID: "run-1", Delegated: true}))
	})

	It("writes nothing above debug level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		h := chain.Assemble(chain.Accept[int](), guards(map[string]bool{"a": true}, "a"), Logging[int, bool](logger, "test"))
		Expect(h(context.Background(), 1)).To(BeTrue())
		Expect(buf.String()).To(BeEmpty())
	})
})

var _ = Describe("Metrics", func() {
	var (
		reg *prometheus.Registry
		c   *Collector
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		c = NewCollector(reg)
	})

	It("counts invocations by unit and delegation", func() {
		h := chain.Assemble(chain.Accept[int](),
			guards(map[string]bool{"a": true, "b": false, "c": true}, "a", "b", "c"),
			Metrics[int, bool](c, "test"))

		Expect(h(context.Background(), 1)).To(BeFalse())
		Expect(h(context.Background(), 2)).To(BeFalse())

		Expect(testutil.ToFloat64(c.unitInvocations.WithLabelValues("test", "a", "true"))).To(Equal(2.0))
		Expect(testutil.ToFloat64(c.unitInvocations.WithLabelValues("test", "b", "false"))).To(Equal(2.0))
		Expect(testutil.CollectAndCount(c.unitInvocations)).To(Equal(2))
		Expect(testutil.CollectAndCount(c.unitDuration)).To(Equal(2))
	})

	It("records chain results", func() {
		c.ObserveResult("test", "valid")
		c.ObserveResult("test", "valid")
		c.ObserveResult("test", "invalid")

		Expect(testutil.ToFloat64(c.chainResults.WithLabelValues("test", "valid"))).To(Equal(2.0))
		Expect(testutil.ToFloat64(c.chainResults.WithLabelValues("test", "invalid"))).To(Equal(1.0))
	})

	It("registers on the given registry only", func() {
		c.ObserveResult("test", "valid")
		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		Expect(families).NotTo(BeEmpty())
		Expect(NewCollector(prometheus.NewRegistry())).NotTo(BeNil())
	})
})

var _ = Describe("Tracing", func() {
	It("opens a nested span per reached unit", func() {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		DeferCleanup(func() { _ = tp.Shutdown(context.Background()) })

		h := chain.Assemble(chain.Unhandled[int, string](),
			[]chain.Unit[int, chain.Maybe[string]]{
				{Name: "defer", Link: chain.Attempt(func(context.Context, int) chain.Maybe[string] { return chain.None[string]() })},
				{Name: "answer", Link: chain.Attempt(func(context.Context, int) chain.Maybe[string] { return chain.Some("ok") })},
				{Name: "never", Link: chain.Attempt(func(context.Context, int) chain.Maybe[string] { return chain.Some("late") })},
			},
			Tracing[int, chain.Maybe[string]](tp.Tracer("test"), "resp"))

		v, ok := h(WithRunID(context.Background(), "run-2"), 1).Get()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("ok"))

		ended := sr.Ended()
		Expect(ended).To(HaveLen(2))

		byName := map[string]sdktrace.ReadOnlySpan{}
		for _, s := range ended {
			byName[s.Name()] = s
		}
		Expect(byName).To(HaveKey("resp/defer"))
		Expect(byName).To(HaveKey("resp/answer"))

		outer, inner := byName["resp/defer"], byName["resp/answer"]
		Expect(inner.Parent().SpanID()).To(Equal(outer.SpanContext().SpanID()))

		attrs := map[string]any{}
		for _, kv := range outer.Attributes() {
			attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
		Expect(attrs).To(HaveKeyWithValue("chain.unit", "defer"))
		Expect(attrs).To(HaveKeyWithValue("chain.delegated", true))
		Expect(attrs).To(HaveKeyWithValue("chain.run_id", "run-2"))
	})
})

var _ = Describe("RunID", func() {
	It("keeps a given id", func() {
		Expect(RunIDFromContext(WithRunID(context.Background(), "abc"))).To(Equal("abc"))
	})

	It("generates an id when empty", func() {
		id := RunIDFromContext(WithRunID(context.Background(), ""))
		Expect(id).To(HaveLen(36))
	})

	It("returns empty without an id", func() {
		Expect(RunIDFromContext(context.Background())).To(BeEmpty())
	})
})

var _ = Describe("stacked decorators", func() {
	It("run the unit body once per invocation", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		c := NewCollector(prometheus.NewRegistry())
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		DeferCleanup(func() { _ = tp.Shutdown(context.Background()) })

		calls := 0
		units := []chain.Unit[int, bool]{{
			Name: "counted",
			Link: chain.Guard(func(context.Context, int) bool {
				calls++
				return true
			}),
		}}

		h := chain.Assemble(chain.Accept[int](), units,
			Tracing[int, bool](tp.Tracer("test"), "stack"),
			Metrics[int, bool](c, "stack"),
			Logging[int, bool](logger, "stack"),
		)

		Expect(h(context.Background(), 1)).To(BeTrue())
		Expect(calls).To(Equal(1))
		Expect(sr.Ended()).To(HaveLen(1))
		Expect(testutil.ToFloat64(c.unitInvocations.WithLabelValues("stack", "counted", "true"))).To(Equal(1.0))
		Expect(strings.Count(buf.String(), "\n")).To(Equal(1))
	})
})
