package monitoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// CatalogMonitor periodically samples catalog growth and host resource
// usage, logging a snapshot and raising an alert event when host CPU stays
// high.
type CatalogMonitor struct {
	db           *sql.DB
	eventSvc     services.EventServiceProvider
	ticker       *time.Ticker
	done         chan bool
	lastCPUAlert time.Time
}

// NewCatalogMonitor creates a new CatalogMonitor.
func NewCatalogMonitor(db *sql.DB, eventSvc services.EventServiceProvider) *CatalogMonitor {
	return &CatalogMonitor{
		db:       db,
		eventSvc: eventSvc,
		done:     make(chan bool),
	}
}

// Run starts the periodic sampling.
func (m *CatalogMonitor) Run() {
	log.Info().Msg("Starting background catalog monitor...")
	m.ticker = time.NewTicker(1 * time.Minute)
	defer m.ticker.Stop()

	// Run once immediately on start
	m.sample()

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping background catalog monitor.")
			return
		case <-m.ticker.C:
			m.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (m *CatalogMonitor) Stop() {
	m.done <- true
}

// sample reads catalog counters and host stats and logs them together.
func (m *CatalogMonitor) sample() {
	var bookCount, reviewCount, userCount int
	row := m.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM books),
		       (SELECT COUNT(*) FROM reviews),
		       (SELECT COUNT(*) FROM users)`)
	if err := row.Scan(&bookCount, &reviewCount, &userCount); err != nil {
		log.Error().Err(err).Msg("CatalogMonitor: Failed to query catalog counters")
		return
	}

	cpuPct := m.hostCPUPercent()
	memPct := m.hostMemoryPercent()

	log.Info().
		Int("books", bookCount).
		Int("reviews", reviewCount).
		Int("users", userCount).
		Float64("host_cpu_pct", cpuPct).
		Float64("host_mem_pct", memPct).
		Msg("Catalog snapshot")

	m.checkAndAlertForHighCPU(cpuPct)
}

func (m *CatalogMonitor) checkAndAlertForHighCPU(cpuPct float64) {
	const highCPUThreshold = 90.0
	const alertCooldown = 15 * time.Minute

	if cpuPct <= highCPUThreshold {
		return
	}
	if !m.lastCPUAlert.IsZero() && time.Since(m.lastCPUAlert) < alertCooldown {
		return
	}

	msg := fmt.Sprintf("High CPU usage (%.1f%%) detected on the host.", cpuPct)
	if err := m.eventSvc.CreateEvent("system.alert.cpu", "warn", msg, nil); err != nil {
		log.Error().Err(err).Msg("CatalogMonitor: Failed to record CPU alert event")
		return
	}
	m.lastCPUAlert = time.Now()
}

func (m *CatalogMonitor) hostCPUPercent() float64 {
	percents, err := cpu.Percent(time.Second, false)
	if err != nil || len(percents) == 0 {
		log.Warn().Err(err).Msg("CatalogMonitor: Could not read host CPU usage")
		return 0
	}
	return percents[0]
}

func (m *CatalogMonitor) hostMemoryPercent() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("CatalogMonitor: Could not read host memory usage")
		return 0
	}
	return vm.UsedPercent
}
