// Package metrics holds the Prometheus instrumentation of the rules engine
// and its observer server. Labels only take bounded values (event kinds,
// fixed operation names).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Game loop metrics
	eventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mage_events_applied_total",
		Help: "Events applied to the game state",
	}, []string{"event"})

	eventsReplaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mage_events_replaced_total",
		Help: "Events consumed by replacement abilities",
	}, []string{"event"})

	eventsTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mage_events_triggered_total",
		Help: "Events that triggered at least one ability",
	}, []string{"event"})

	orderingBuildPasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mage_ordering_build_passes",
		Help:    "Discovery passes needed to build an ability ordering",
		Buckets: []float64{1, 2, 3, 5, 8, 16, 64, 256},
	})

	staleOrderingUses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mage_ordering_stale_uses_total",
		Help: "Queries or listens made on a stale ability ordering",
	}, []string{"op"}) // Bounded: "query", "listen"

	stateBasedActions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mage_state_based_actions_total",
		Help: "Corrective events produced by state-based action checks",
	})

	choicesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mage_choices_rejected_total",
		Help: "Player choices rejected and re-prompted",
	})

	decisionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mage_decision_duration_seconds",
		Help:    "Time the decision provider took to answer",
		Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 30, 120},
	})

	gamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mage_games_finished_total",
		Help: "Games that reached a result",
	})

	// Observer metrics
	observersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mage_observers_active",
		Help: "Currently connected websocket observers",
	})

	snapshotsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mage_snapshots_sent_total",
		Help: "Snapshots written to websocket observers",
	})

	snapshotsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mage_snapshots_dropped_total",
		Help: "Snapshots overwritten before an observer consumed them",
	})
)

// EventApplied counts an applied event.
func EventApplied(event string) {
	eventsApplied.WithLabelValues(event).Inc()
}

// EventReplaced counts an event consumed by a replacement ability.
func EventReplaced(event string) {
	eventsReplaced.WithLabelValues(event).Inc()
}

// EventTriggered counts an event that triggered abilities.
func EventTriggered(event string) {
	eventsTriggered.WithLabelValues(event).Inc()
}

// OrderingRebuilt records how many passes an ordering build took.
func OrderingRebuilt(passes int) {
	orderingBuildPasses.Observe(float64(passes))
}

// StaleOrdering counts a use of a stale ability ordering.
func StaleOrdering(op string) {
	staleOrderingUses.WithLabelValues(op).Inc()
}

// StateBasedActions counts corrective events.
func StateBasedActions(n int) {
	stateBasedActions.Add(float64(n))
}

// ChoiceRejected counts a rejected player choice.
func ChoiceRejected() {
	choicesRejected.Inc()
}

// ObserveDecision records decision provider latency.
func ObserveDecision(d time.Duration) {
	decisionLatency.Observe(d.Seconds())
}

// GameFinished counts a finished game.
func GameFinished() {
	gamesFinished.Inc()
}

// ObserverConnected tracks a websocket observer joining.
func ObserverConnected() {
	observersActive.Inc()
}

// ObserverDisconnected tracks a websocket observer leaving.
func ObserverDisconnected() {
	observersActive.Dec()
}

// SnapshotSent counts a snapshot written to an observer.
func SnapshotSent() {
	snapshotsSent.Inc()
}

// SnapshotDropped counts a snapshot overwritten before delivery.
func SnapshotDropped() {
	snapshotsDropped.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
