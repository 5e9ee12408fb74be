package ntrack

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stat names a startup metric: either a timer or a counter.
type Stat int

const (
	StatConfigurationTime       Stat = iota // configuration-time
	StatBundleTime                          // bundle-time
	StatBundleResolutionTime                // bundle-resolution-time
	StatHooksTime                           // hooks-time
	StatInstallersTime                      // installers-time
	StatExtensionsRecognitionTime           // extensions-recognition-time
	StatRegistrationsCount                  // registrations-count
	StatDuplicatesCount                     // duplicates-count
	StatDisablesCount                       // disables-count
	StatBundlesFromLookupCount              // bundles-from-lookup-count
	StatCommandsCount                       // commands-count
	lastStat                                // UNUSED
)

var statNames = [...]string{
	StatConfigurationTime:         "configuration-time",
	StatBundleTime:                "bundle-time",
	StatBundleResolutionTime:      "bundle-resolution-time",
	StatHooksTime:                 "hooks-time",
	StatInstallersTime:            "installers-time",
	StatExtensionsRecognitionTime: "extensions-recognition-time",
	StatRegistrationsCount:        "registrations-count",
	StatDuplicatesCount:           "duplicates-count",
	StatDisablesCount:             "disables-count",
	StatBundlesFromLookupCount:    "bundles-from-lookup-count",
	StatCommandsCount:             "commands-count",
}

func (s Stat) String() string {
	if s < 0 || s >= lastStat {
		return "UNUSED"
	}
	return statNames[s]
}

// AllStats lists every stat in display order
func AllStats() []Stat {
	r := make([]Stat, 0, int(lastStat))
	for s := StatConfigurationTime; s < lastStat; s++ {
		r = append(r, s)
	}
	return r
}

// IsTimer is true for time stats
func (s Stat) IsTimer() bool {
	return s <= StatExtensionsRecognitionTime
}

// Stats collects startup metrics.  Values are kept locally and
// mirrored into prometheus collectors which can be exposed with
// Register.
type Stats struct {
	lock    sync.Mutex
	times   map[Stat]time.Duration
	counts  map[Stat]int
	running map[Stat]int
	seconds *prometheus.GaugeVec
	totals  *prometheus.CounterVec
	byKind  *prometheus.CounterVec
}

func newStats() *Stats {
	return &Stats{
		times:   make(map[Stat]time.Duration),
		counts:  make(map[Stat]int),
		running: make(map[Stat]int),
		seconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ntrack",
			Name:      "stat_seconds",
			Help:      "Accumulated time spent in configuration phases",
		}, []string{"stat"}),
		totals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ntrack",
			Name:      "stat_total",
			Help:      "Configuration event counters",
		}, []string{"stat"}),
		byKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ntrack",
			Name:      "registrations_total",
			Help:      "Registration attempts by item kind",
		}, []string{"kind"}),
	}
}

// Register exposes the collectors to a prometheus registry
func (s *Stats) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.seconds, s.totals, s.byKind} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Timer is a running measurement of a time stat
type Timer struct {
	stats   *Stats
	stat    Stat
	start   time.Time
	stopped bool
}

// Timer starts measuring stat.  Several measurements of the same stat
// accumulate.
func (s *Stats) Timer(stat Stat) *Timer {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.running[stat]++
	return &Timer{stats: s, stat: stat, start: time.Now()}
}

// Stop ends the measurement.  Extra calls are ignored.
func (t *Timer) Stop() time.Duration {
	s := t.stats
	s.lock.Lock()
	defer s.lock.Unlock()
	if t.stopped {
		return 0
	}
	t.stopped = true
	d := time.Since(t.start)
	s.times[t.stat] += d
	s.running[t.stat]--
	if s.running[t.stat] == 0 {
		delete(s.running, t.stat)
	}
	s.seconds.WithLabelValues(t.stat.String()).Add(d.Seconds())
	return d
}

func (s *Stats) count(stat Stat, n int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.counts[stat] += n
	s.totals.WithLabelValues(stat.String()).Add(float64(n))
}

func (s *Stats) countKind(kind ItemKind) {
	s.count(StatRegistrationsCount, 1)
	s.byKind.WithLabelValues(kind.String()).Inc()
}

// Duration returns the accumulated time for stat
func (s *Stats) Duration(stat Stat) time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.times[stat]
}

// Count returns the value of a counter stat
func (s *Stats) Count(stat Stat) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.counts[stat]
}

// RunningTimers lists timers that were started and not stopped
func (s *Stats) RunningTimers() []Stat {
	s.lock.Lock()
	defer s.lock.Unlock()
	r := make([]Stat, 0, len(s.running))
	for st := range s.running {
		r = append(r, st)
	}
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return r
}
