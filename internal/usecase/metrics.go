package usecase

import (
	"sync"
	"time"

	"pesacore/internal/domain"
)

type (
	PipelineMetrics struct {
		mu     sync.RWMutex
		phases map[domain.Phase]*PhaseCounters
	}

	// PhaseCounters splits runs by how they ended. Succeeded and Failed are
	// classified outcomes; TransportErrors is the subset of Failed that never
	// got a response. Rejected runs never reached dispatch, Errored runs got a
	// response that could not be classified.
	PhaseCounters struct {
		Succeeded       uint64        `json:"succeeded"`
		Failed          uint64        `json:"failed"`
		TransportErrors uint64        `json:"transportErrors"`
		Rejected        uint64        `json:"rejected"`
		Errored         uint64        `json:"errored"`
		AvgDispatchTime time.Duration `json:"avgDispatchTime"`
	}
)

func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		phases: map[domain.Phase]*PhaseCounters{
			domain.PhaseVerification: {},
			domain.PhaseSettlement:   {},
		},
	}
}

func (m *PipelineMetrics) Snapshot() map[domain.Phase]PhaseCounters {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[domain.Phase]PhaseCounters, len(m.phases))
	for phase, c := range m.phases {
		out[phase] = *c
	}
	return out
}

func (m *PipelineMetrics) recordOutcome(phase domain.Phase, failed bool) {
	m.update(phase, func(c *PhaseCounters) {
		if failed {
			c.Failed++
		} else {
			c.Succeeded++
		}
	})
}

func (m *PipelineMetrics) recordTransportError(phase domain.Phase) {
	m.update(phase, func(c *PhaseCounters) { c.TransportErrors++ })
}

func (m *PipelineMetrics) recordRejected(phase domain.Phase) {
	m.update(phase, func(c *PhaseCounters) { c.Rejected++ })
}

func (m *PipelineMetrics) recordErrored(phase domain.Phase) {
	m.update(phase, func(c *PhaseCounters) { c.Errored++ })
}

func (m *PipelineMetrics) recordDispatchTime(phase domain.Phase, d time.Duration) {
	m.update(phase, func(c *PhaseCounters) {
		if c.AvgDispatchTime == 0 {
			c.AvgDispatchTime = d
		} else {
			c.AvgDispatchTime = (c.AvgDispatchTime + d) / 2
		}
	})
}

func (m *PipelineMetrics) update(phase domain.Phase, fn func(*PhaseCounters)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.phases[phase]
	if !ok {
		c = &PhaseCounters{}
		m.phases[phase] = c
	}
	fn(c)
}
