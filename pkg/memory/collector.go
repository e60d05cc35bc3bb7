package memory

import "github.com/prometheus/client_golang/prometheus"

var _ prometheus.Collector = (*Collector)(nil)

// Collector exports the counters of a StatsSource as prometheus metrics.
type Collector struct {
	source StatsSource

	allocs     *prometheus.Desc
	frees      *prometheus.Desc
	failures   *prometheus.Desc
	faults     *prometheus.Desc
	liveBytes  *prometheus.Desc
	liveBufs   *prometheus.Desc
	totalBytes *prometheus.Desc
}

// NewCollector builds a collector reading from source. constLabels are
// attached to every metric, e.g. to tell several allocators apart.
func NewCollector(namespace string, source StatsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "allocator", name), help, nil, constLabels)
	}
	return &Collector{
		source:     source,
		allocs:     desc("allocs_total", "Buffers handed out by the allocator."),
		frees:      desc("frees_total", "Buffers returned to the allocator."),
		failures:   desc("failures_total", "Allocation requests that could not be served."),
		faults:     desc("faults_total", "Frees of unknown buffers or with a wrong size."),
		liveBytes:  desc("live_bytes", "Bytes currently allocated and not freed."),
		liveBufs:   desc("live_buffers", "Buffers currently allocated and not freed."),
		totalBytes: desc("allocated_bytes_total", "Bytes handed out since start."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.failures
	ch <- c.faults
	ch <- c.liveBytes
	ch <- c.liveBufs
	ch <- c.totalBytes
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(s.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(s.Frees))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(c.faults, prometheus.CounterValue, float64(s.Faults))
	ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(s.LiveBytes))
	ch <- prometheus.MustNewConstMetric(c.liveBufs, prometheus.GaugeValue, float64(s.LiveBufs))
	ch <- prometheus.MustNewConstMetric(c.totalBytes, prometheus.CounterValue, float64(s.TotalBytes))
}

// Register registers c with reg, tolerating a previous registration of an
// equal collector.
func Register(reg prometheus.Registerer, c *Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}
