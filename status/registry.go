// Package status collects runtime counters from the render worker and its peers
// Writers cache metric pointers once and update atomics directly; readers poll
package status

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Registry groups metrics by kind
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[Gauge]
	Labels   *MetricMap[Label]
}

func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[Gauge](),
		Labels:   NewMetricMap[Label](),
	}
}

// Counter reads a counter, 0 if never registered
func (r *Registry) Counter(key string) int64 {
	if c, ok := r.Counters.Lookup(key); ok {
		return c.Load()
	}
	return 0
}

// Summary renders the named metrics as "name=value" pairs in the given order
// Names are looked up as counters, then gauges, then labels; unknown names are skipped
// A name's text after the last '.' is used as its display key
func (r *Registry) Summary(keys ...string) string {
	var b strings.Builder
	for _, key := range keys {
		var val string
		if c, ok := r.Counters.Lookup(key); ok {
			val = strconv.FormatInt(c.Load(), 10)
		} else if g, ok := r.Gauges.Lookup(key); ok {
			val = strconv.FormatFloat(g.Get(), 'f', 1, 64)
		} else if l, ok := r.Labels.Lookup(key); ok {
			val = l.Load()
		} else {
			continue
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		short := key
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			short = key[i+1:]
		}
		b.WriteString(short)
		b.WriteByte('=')
		b.WriteString(val)
	}
	return b.String()
}

// Total returns the number of registered metrics across kinds
func (r *Registry) Total() int {
	return r.Counters.Count() + r.Gauges.Count() + r.Labels.Count()
}
