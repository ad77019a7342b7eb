// Package metrics exposes Prometheus collectors for the bot search.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Search struct {
	nodes      prometheus.Counter
	tableHits  prometheus.Counter
	cacheHits  *prometheus.CounterVec
	tableSize  prometheus.Gauge
	duration   prometheus.Histogram
	botMoves   prometheus.Counter
	tableReset prometheus.Counter
}

// NewSearch registers the search collectors on reg.
func NewSearch(reg prometheus.Registerer) *Search {
	factory := promauto.With(reg)

	return &Search{
		nodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "negamax",
			Name:      "nodes_total",
			Help:      "Positions visited by the negamax search.",
		}),
		tableHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "negamax",
			Name:      "table_hits_total",
			Help:      "Positions answered by the transposition table.",
		}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "bot",
			Name:      "analysis_cache_total",
			Help:      "Analysis cache lookups by result.",
		}, []string{"result"}),
		tableSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tictactoe",
			Subsystem: "negamax",
			Name:      "table_entries",
			Help:      "Entries held by the transposition table.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tictactoe",
			Subsystem: "negamax",
			Name:      "search_duration_seconds",
			Help:      "Duration of a root search.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		botMoves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "bot",
			Name:      "moves_total",
			Help:      "Moves played by the bot.",
		}),
		tableReset: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tictactoe",
			Subsystem: "negamax",
			Name:      "table_resets_total",
			Help:      "Times the transposition table was dropped for exceeding its cap.",
		}),
	}
}

func (that *Search) ObserveSearch(nodes, tableHits int64, tableEntries int, elapsed time.Duration) {
	that.nodes.Add(float64(nodes))
	that.tableHits.Add(float64(tableHits))
	that.tableSize.Set(float64(tableEntries))
	that.duration.Observe(elapsed.Seconds())
}

func (that *Search) CacheHit() {
	that.cacheHits.WithLabelValues("hit").Inc()
}

func (that *Search) CacheMiss() {
	that.cacheHits.WithLabelValues("miss").Inc()
}

func (that *Search) BotMove() {
	that.botMoves.Inc()
}

func (that *Search) TableReset() {
	that.tableReset.Inc()
}
