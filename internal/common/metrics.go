package common

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"
)

// ConvertMetrics tracks throughput counters across one batch conversion.
// All methods are safe for concurrent use.
type ConvertMetrics struct {
	mu           sync.Mutex
	start        time.Time
	end          time.Time
	bytes        int64
	totalBytes   int64
	interchanges int64
	transactions int64
	failures     int64
}

func NewConvertMetrics() *ConvertMetrics {
	return &ConvertMetrics{}
}

func (m *ConvertMetrics) Start() {
	m.mu.Lock()
	if m.start.IsZero() {
		m.start = time.Now()
		m.end = time.Time{}
	}
	m.mu.Unlock()
}

func (m *ConvertMetrics) Stop() {
	m.mu.Lock()
	if !m.start.IsZero() && m.end.IsZero() {
		m.end = time.Now()
	}
	m.mu.Unlock()
}

// AddInterchange records one converted input with its size and the number
// of transactions it produced.
func (m *ConvertMetrics) AddInterchange(size int64, transactions int) {
	m.mu.Lock()
	m.bytes += size
	m.interchanges++
	m.transactions += int64(transactions)
	m.mu.Unlock()
}

func (m *ConvertMetrics) IncFailure() {
	m.mu.Lock()
	m.failures++
	m.mu.Unlock()
}

func (m *ConvertMetrics) SetTotalBytes(total int64) {
	if total < 0 {
		total = 0
	}
	m.mu.Lock()
	m.totalBytes = total
	m.mu.Unlock()
}

func (m *ConvertMetrics) Snapshot() ConvertSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ConvertSnapshot{
		Duration:     m.elapsedLocked(),
		Bytes:        m.bytes,
		TotalBytes:   m.totalBytes,
		Interchanges: m.interchanges,
		Transactions: m.transactions,
		Failures:     m.failures,
	}
}

func (m *ConvertMetrics) elapsedLocked() time.Duration {
	if m.start.IsZero() {
		return 0
	}
	if !m.end.IsZero() {
		return m.end.Sub(m.start)
	}
	return time.Since(m.start)
}

type ConvertSnapshot struct {
	Duration     time.Duration
	Bytes        int64
	TotalBytes   int64
	Interchanges int64
	Transactions int64
	Failures     int64
}

func (s ConvertSnapshot) ThroughputBytesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Duration.Seconds()
}

func (s ConvertSnapshot) Completion() float64 {
	if s.TotalBytes <= 0 {
		return 0
	}
	ratio := float64(s.Bytes) / float64(s.TotalBytes)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div := float64(unit)
	exp := 0
	for n := float64(b) / div; n >= unit && exp < 6; n /= unit {
		div *= unit
		exp++
	}
	prefixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	return fmt.Sprintf("%.2f %s", float64(b)/div, prefixes[exp])
}

func formatProgressLine(s ConvertSnapshot) string {
	throughput := s.ThroughputBytesPerSecond() / (1024 * 1024)
	if s.TotalBytes > 0 {
		pct := s.Completion() * 100
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			pct = 0
		}
		return fmt.Sprintf("Progress: %6.2f%% (%s / %s) %d tx %.2f MiB/s", pct, FormatBytes(s.Bytes), FormatBytes(s.TotalBytes), s.Transactions, throughput)
	}
	return fmt.Sprintf("Processed: %s %d tx %.2f MiB/s", FormatBytes(s.Bytes), s.Transactions, throughput)
}

// StartProgressPrinter redraws a single progress line on w until the
// returned stop function is called.
func StartProgressPrinter(w io.Writer, m *ConvertMetrics, interval time.Duration) func() {
	if m == nil || w == nil {
		return func() {}
	}
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		lastLen := 0
		for {
			select {
			case <-ticker.C:
				line := formatProgressLine(m.Snapshot())
				pad := lastLen - len(line)
				if pad > 0 {
					line += strings.Repeat(" ", pad)
				}
				fmt.Fprintf(w, "\r%s", line)
				lastLen = len(line)
			case <-done:
				if lastLen > 0 {
					fmt.Fprintf(w, "\r%s\r\n", strings.Repeat(" ", lastLen))
				}
				return
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}
