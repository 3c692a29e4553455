package engine

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type SearchStats struct {
	Nodes    int64         `json:"nodes"`
	Leaves   int64         `json:"leaves"`
	Cutoffs  int64         `json:"cutoffs"`
	Depth    int           `json:"depth"`
	Workers  int           `json:"workers"`
	Duration time.Duration `json:"duration_ns"`
}

type searchStatsCollector struct {
	start   time.Time
	nodes   atomic.Int64
	leaves  atomic.Int64
	cutoffs atomic.Int64
}

func newStatsCollector() *searchStatsCollector {
	return &searchStatsCollector{start: time.Now()}
}

func (c *searchStatsCollector) AddNode() {
	c.nodes.Add(1)
}

func (c *searchStatsCollector) AddLeaf() {
	c.leaves.Add(1)
}

func (c *searchStatsCollector) AddCutoff() {
	c.cutoffs.Add(1)
}

func (c *searchStatsCollector) Complete(depth, workers int) SearchStats {
	return SearchStats{
		Nodes:    c.nodes.Load(),
		Leaves:   c.leaves.Load(),
		Cutoffs:  c.cutoffs.Load(),
		Depth:    depth,
		Workers:  workers,
		Duration: time.Since(c.start),
	}
}

func (s SearchStats) NodesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Nodes) / s.Duration.Seconds()
}

// MarshalZerologObject lets callers attach stats with Object("stats", stats).
func (s SearchStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("nodes", s.Nodes).
		Int64("leaves", s.Leaves).
		Int64("cutoffs", s.Cutoffs).
		Int("depth", s.Depth).
		Int("workers", s.Workers).
		Dur("elapsed", s.Duration).
		Float64("nps", s.NodesPerSecond())
}
