package world

import "sync/atomic"

// Metrics counts world activity for the ops surface. Counters are atomic so
// Snapshot can be read from any goroutine while the event loop runs.
type Metrics struct {
	tasksRun        int64
	messagesHandled int64
	intentsRejected int64
	joins           int64
	leaves          int64
	eventsSent      int64
	drinksDropped   int64
	drinksExpired   int64
}

func (m *Metrics) addTask()     { atomic.AddInt64(&m.tasksRun, 1) }
func (m *Metrics) incHandled()  { atomic.AddInt64(&m.messagesHandled, 1) }
func (m *Metrics) incRejected() { atomic.AddInt64(&m.intentsRejected, 1) }
func (m *Metrics) incJoins()    { atomic.AddInt64(&m.joins, 1) }
func (m *Metrics) incLeaves()   { atomic.AddInt64(&m.leaves, 1) }
func (m *Metrics) incSent()     { atomic.AddInt64(&m.eventsSent, 1) }
func (m *Metrics) incDrops()    { atomic.AddInt64(&m.drinksDropped, 1) }
func (m *Metrics) incExpired()  { atomic.AddInt64(&m.drinksExpired, 1) }

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"tasks_run":        atomic.LoadInt64(&m.tasksRun),
		"messages_handled": atomic.LoadInt64(&m.messagesHandled),
		"intents_rejected": atomic.LoadInt64(&m.intentsRejected),
		"joins":            atomic.LoadInt64(&m.joins),
		"leaves":           atomic.LoadInt64(&m.leaves),
		"events_sent":      atomic.LoadInt64(&m.eventsSent),
		"drinks_dropped":   atomic.LoadInt64(&m.drinksDropped),
		"drinks_expired":   atomic.LoadInt64(&m.drinksExpired),
	}
}
