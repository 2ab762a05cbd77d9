package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("age", "ok")
	m.ObserveTurn("age", "reprompt")
	m.ObserveTurn("age", "ok")
	m.ObserveCompleted(90)
	m.ObserveFinalizeFailure()

	turns := gather(t, reg, "leadbot_chat_turns_total")
	if turns == nil {
		t.Fatal("turns_total not registered")
	}
	var okCount float64
	for _, metric := range turns.GetMetric() {
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["level"] == "age" && labels["outcome"] == "ok" {
			okCount = metric.GetCounter().GetValue()
		}
	}
	if okCount != 2 {
		t.Errorf("turns{age,ok} = %v, want 2", okCount)
	}

	completed := gather(t, reg, "leadbot_chat_conversations_completed_total")
	if completed == nil || completed.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("completed_total = %+v, want 1", completed)
	}

	score := gather(t, reg, "leadbot_chat_lead_score")
	if score == nil {
		t.Fatal("lead_score not registered")
	}
	hist := score.GetMetric()[0].GetHistogram()
	if hist.GetSampleCount() != 1 || hist.GetSampleSum() != 90 {
		t.Errorf("lead_score count/sum = %d/%v, want 1/90", hist.GetSampleCount(), hist.GetSampleSum())
	}

	failures := gather(t, reg, "leadbot_chat_finalize_failures_total")
	if failures == nil || failures.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("finalize_failures_total = %+v, want 1", failures)
	}
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveTurn("age", "ok")
	m.ObserveCompleted(90)
	m.ObserveFinalizeFailure()
}
