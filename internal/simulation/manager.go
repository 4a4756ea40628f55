// Package simulation drives the replay clock: it advances the shared
// simulation day on a ticker, assembles per-segment updates from stored
// history and fans them out to subscribers.
package simulation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/model"
)

// State is the clock's run state.
type State string

// The clock is either advancing or holding.
const (
	Running State = "running"
	Paused  State = "paused"
)

// minTick is the floor on the effective push cadence; higher speed
// multipliers saturate here instead of spinning.
const minTick = 100 * time.Millisecond

// maxSpeed bounds the multiplier accepted from clients.
const maxSpeed = 1000.0

// subscriberBuffer absorbs short consumer stalls. A subscriber that falls
// further behind loses updates rather than stalling the clock.
const subscriberBuffer = 8

// RecordSource is the slice of the store the manager reads.
type RecordSource interface {
	GetDay(segmentID string, day int) (model.DailyRecord, error)
	LatestDay(segmentID string) (int, error)
}

// SegmentTick is one segment's slice of a clock tick.
type SegmentTick struct {
	Snapshot model.SegmentHealthSnapshot `json:"snapshot"`
	Record   model.DailyRecord           `json:"record"`
}

// Update is the payload broadcast on every tick.
type Update struct {
	Day       int                    `json:"day"`
	Timestamp string                 `json:"timestamp"`
	State     State                  `json:"state"`
	Speed     float64                `json:"speed"`
	Segments  map[string]SegmentTick `json:"segments"`
}

// Manager owns the simulation clock. All mutation goes through its methods;
// the RWMutex keeps reads cheap for the serving layer while the tick loop is
// the only writer of the day counter.
type Manager struct {
	source     RecordSource
	mapper     *health.Mapper
	logger     *zap.SugaredLogger
	segmentIDs []string

	startDay int
	maxDay   int
	baseTick time.Duration

	mu    sync.RWMutex
	day   int
	state State
	speed float64
	subs  map[uuid.UUID]chan Update

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewManager builds a manager starting at startDay in the Running state.
func NewManager(source RecordSource, mapper *health.Mapper, segmentIDs []string,
	startDay, maxDay int, baseTick time.Duration, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		source:     source,
		mapper:     mapper,
		logger:     logger,
		segmentIDs: segmentIDs,
		startDay:   startDay,
		maxDay:     maxDay,
		baseTick:   baseTick,
		day:        startDay,
		state:      Running,
		speed:      1.0,
		subs:       make(map[uuid.UUID]chan Update),
		shutdown:   make(chan struct{}),
	}
}

// Start launches the tick loop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.run()
}

// Stop halts the tick loop and closes all subscriber channels.
func (m *Manager) Stop() {
	close(m.shutdown)
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
}

func (m *Manager) run() {
	defer m.wg.Done()

	timer := time.NewTimer(m.interval())
	defer timer.Stop()

	for {
		select {
		case <-m.shutdown:
			return
		case <-timer.C:
			if m.advance() {
				m.broadcast()
			}
			timer.Reset(m.interval())
		}
	}
}

// interval is the current effective tick cadence. A zero speed freezes the
// day counter but keeps the loop polling at the base cadence so a later
// speed change takes effect.
func (m *Manager) interval() time.Duration {
	m.mu.RLock()
	speed := m.speed
	m.mu.RUnlock()

	if speed <= 0 {
		return m.baseTick
	}
	d := time.Duration(float64(m.baseTick) / speed)
	if d < minTick {
		return minTick
	}
	return d
}

// advance moves the clock one day forward, wrapping past maxDay back to the
// start. Returns false when the clock is held.
func (m *Manager) advance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Running || m.speed <= 0 {
		return false
	}
	m.day++
	if m.day > m.maxDay {
		m.day = m.startDay
	}
	return true
}

// buildUpdate assembles the tick payload for the given day. A segment with no
// stored record for the day falls back to its latest available record, so a
// short history degrades to stale data instead of dropping the segment from
// the feed. Only a segment with no records at all is skipped.
func (m *Manager) buildUpdate(day int, state State, speed float64) Update {
	update := Update{
		Day:       day,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		State:     state,
		Speed:     speed,
		Segments:  make(map[string]SegmentTick, len(m.segmentIDs)),
	}

	for _, id := range m.segmentIDs {
		rec, err := m.source.GetDay(id, day)
		if err != nil {
			rec, err = m.latestRecord(id)
			if err != nil {
				m.logger.Warnf("No records for %s: %v", id, err)
				continue
			}
			m.logger.Debugf("Serving latest record (day %d) for %s in place of day %d", rec.Day, id, day)
		}
		update.Segments[id] = SegmentTick{
			Snapshot: m.mapper.Snapshot(id, day, rec.RUL),
			Record:   rec,
		}
	}
	return update
}

func (m *Manager) latestRecord(segmentID string) (model.DailyRecord, error) {
	latest, err := m.source.LatestDay(segmentID)
	if err != nil {
		return model.DailyRecord{}, err
	}
	return m.source.GetDay(segmentID, latest)
}

func (m *Manager) broadcast() {
	m.mu.RLock()
	day, state, speed := m.day, m.state, m.speed
	subs := make([]chan Update, 0, len(m.subs))
	for _, ch := range m.subs {
		subs = append(subs, ch)
	}
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	update := m.buildUpdate(day, state, speed)
	for _, ch := range subs {
		select {
		case ch <- update:
		default:
			// Slow subscriber, drop this tick for it.
		}
	}
}

// Subscribe registers a new update consumer.
func (m *Manager) Subscribe() (uuid.UUID, <-chan Update) {
	id := uuid.New()
	ch := make(chan Update, subscriberBuffer)

	m.mu.Lock()
	m.subs[id] = ch
	m.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a consumer. The channel is left open: broadcast holds
// channel references outside the lock while it assembles the payload, and a
// close here would turn that send into a panic. Orphaned channels are
// garbage collected once the consumer stops reading; Stop closes whatever is
// still registered.
func (m *Manager) Unsubscribe(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}

// Pause holds the clock.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Paused
}

// Resume releases a paused clock.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Running
}

// Reset rewinds to the start day and resumes.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.day = m.startDay
	m.state = Running
	m.mu.Unlock()
}

// SetSpeed changes the clock multiplier. Zero freezes the day counter
// without a state transition; negative or excessive values are rejected.
func (m *Manager) SetSpeed(speed float64) error {
	if speed < 0 || speed > maxSpeed {
		return fmt.Errorf("speed %v outside [0, %v]", speed, maxSpeed)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = speed
	return nil
}

// Day returns the current simulation day.
func (m *Manager) Day() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.day
}

// Status reports the clock position and run state.
func (m *Manager) Status() (day int, state State, speed float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.day, m.state, m.speed
}

// CurrentUpdate assembles the tick payload for the current day on demand,
// for request/response reads that should not wait for the next tick.
func (m *Manager) CurrentUpdate() Update {
	day, state, speed := m.Status()
	return m.buildUpdate(day, state, speed)
}

// SegmentIDs lists the segments the manager serves.
func (m *Manager) SegmentIDs() []string {
	return m.segmentIDs
}
