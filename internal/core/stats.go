// Render bookkeeping for diagnostics
package core

import (
	"sync"
	"time"
)

const recentRenderWindow = 64

// Stats summarises controller activity since construction.
type Stats struct {
	Operations    int           // committed state changes
	Renders       int           // renders stored as current
	Superseded    int           // renders cancelled by a newer operation
	Failed        int           // renders that failed and rolled back
	LastRender    time.Duration // duration of the most recent stored render
	AverageRender time.Duration // mean over the recent render window
}

type pipelineStats struct {
	mu      sync.Mutex
	stats   Stats
	recent  []time.Duration
	nextIdx int
}

func (ps *pipelineStats) operation() {
	ps.mu.Lock()
	ps.stats.Operations++
	ps.mu.Unlock()
}

func (ps *pipelineStats) rendered(d time.Duration) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.stats.Renders++
	ps.stats.LastRender = d
	if len(ps.recent) < recentRenderWindow {
		ps.recent = append(ps.recent, d)
	} else {
		ps.recent[ps.nextIdx] = d
		ps.nextIdx = (ps.nextIdx + 1) % recentRenderWindow
	}
}

func (ps *pipelineStats) superseded() {
	ps.mu.Lock()
	ps.stats.Superseded++
	ps.mu.Unlock()
}

func (ps *pipelineStats) failed() {
	ps.mu.Lock()
	ps.stats.Failed++
	ps.mu.Unlock()
}

func (ps *pipelineStats) snapshot() Stats {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	s := ps.stats
	if len(ps.recent) > 0 {
		var total time.Duration
		for _, d := range ps.recent {
			total += d
		}
		s.AverageRender = total / time.Duration(len(ps.recent))
	}
	return s
}
