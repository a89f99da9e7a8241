package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const namespace = "claimsdesk"

// DeskSample is a point-in-time size of the desk's stores
type DeskSample struct {
	Patients    int
	Claims      map[string]int // loaded claims by status
	SyncHistory int
	Connected   bool
}

// Sampler reads the current desk state. It must be safe to call from another goroutine.
type Sampler func() DeskSample

// MetricsManager owns the private registry and the gauges refreshed on a timer
type MetricsManager struct {
	registry *prometheus.Registry

	mu          sync.RWMutex
	initialized bool

	hostCPU       *prometheus.GaugeVec
	hostMemory    *prometheus.GaugeVec
	deskRecords   *prometheus.GaugeVec
	deskClaims    *prometheus.GaugeVec
	deskConnected prometheus.Gauge
}

var (
	instance *MetricsManager
	once     sync.Once
)

// GetInstance returns the process-wide MetricsManager
func GetInstance() *MetricsManager {
	once.Do(func() {
		instance = &MetricsManager{registry: prometheus.NewRegistry()}
	})
	return instance
}

// Registry exposes the private registry, mostly for tests
func (mm *MetricsManager) Registry() *prometheus.Registry {
	return mm.registry
}

func gaugeVec(name, help, label string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, []string{label})
}

// InitializeSystemMetrics registers the runtime, process, host and desk collectors once
func (mm *MetricsManager) InitializeSystemMetrics() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if mm.initialized {
		return
	}

	mm.hostCPU = gaugeVec("host_cpu_usage_percent", "CPU usage per core", "core")
	mm.hostMemory = gaugeVec("host_memory_bytes", "Host memory by state", "state")
	mm.deskRecords = gaugeVec("desk_records", "Records currently held by each store", "collection")
	mm.deskClaims = gaugeVec("desk_claims", "Loaded claims by status", "status")
	mm.deskConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "desk_sync_connected",
		Help:      "1 when the last sync probe reported a spreadsheet connection",
	})

	mm.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		mm.hostCPU,
		mm.hostMemory,
		mm.deskRecords,
		mm.deskClaims,
		mm.deskConnected,
	)
	mm.initialized = true
}

// StartSystemMetrics samples the host and the desk every interval until ctx is done.
// It is a no-op when system metrics are disabled. sample may be nil.
func StartSystemMetrics(ctx context.Context, interval time.Duration, sample Sampler) {
	if !SystemEnabled() {
		return
	}

	mm := GetInstance()
	mm.InitializeSystemMetrics()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		mm.collect(sample)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mm.collect(sample)
			}
		}
	}()
}

func (mm *MetricsManager) collect(sample Sampler) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	if !mm.initialized {
		return
	}

	if usage, err := cpu.Percent(0, true); err == nil {
		for i, pct := range usage {
			mm.hostCPU.WithLabelValues(fmt.Sprintf("cpu%d", i)).Set(pct)
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		mm.hostMemory.WithLabelValues("total").Set(float64(vm.Total))
		mm.hostMemory.WithLabelValues("available").Set(float64(vm.Available))
		mm.hostMemory.WithLabelValues("used").Set(float64(vm.Used))
	}

	if sample != nil {
		mm.recordDesk(sample())
	}
}

func (mm *MetricsManager) recordDesk(s DeskSample) {
	total := 0
	for status, n := range s.Claims {
		mm.deskClaims.WithLabelValues(status).Set(float64(n))
		total += n
	}

	mm.deskRecords.WithLabelValues("patients").Set(float64(s.Patients))
	mm.deskRecords.WithLabelValues("claims").Set(float64(total))
	mm.deskRecords.WithLabelValues("sync_history").Set(float64(s.SyncHistory))

	connected := 0.0
	if s.Connected {
		connected = 1
	}
	mm.deskConnected.Set(connected)
}
