package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"costlens/internal/core"
)

const healthProbeTimeout = 2 * time.Second

// HealthProbe 外部依賴的連線檢查；Optional 的依賴失敗不影響 readiness
type HealthProbe struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

type DependencyStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"` // up / down / disabled
	Error  string `json:"error,omitempty"`
}

type ReadinessReport struct {
	Ready        bool               `json:"ready"`
	Dependencies []DependencyStatus `json:"dependencies,omitempty"`
}

type HealthService struct {
	live   atomic.Bool
	ready  atomic.Bool
	probes []HealthProbe
}

func NewHealthService(probes []HealthProbe) *HealthService {
	s := &HealthService{probes: probes}
	s.live.Store(true)
	return s
}

// SetReady 啟動流程完成後打開，關機時先關閉
func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

// Readiness 依序檢查每個依賴；流程尚未 ready 時不打探針
func (s *HealthService) Readiness(ctx context.Context) ReadinessReport {
	if !s.ready.Load() {
		return ReadinessReport{}
	}
	report := ReadinessReport{Ready: true}
	for _, probe := range s.probes {
		status := DependencyStatus{Name: probe.Name, Status: "up"}

		probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
		err := probe.Check(probeCtx)
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, core.ErrStoreUnavailable) && probe.Optional:
			status.Status = "disabled"
		default:
			status.Status = "down"
			status.Error = err.Error()
			if !probe.Optional {
				report.Ready = false
			}
		}
		report.Dependencies = append(report.Dependencies, status)
	}
	return report
}
