package testutils

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"
)

// SentMessage is a decoded outbound envelope as a client observed it.
type SentMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// MockClient simulates a connected websocket client
type MockClient struct {
	IDVal  string
	Sent   []SentMessage
	Closed bool
	Mu     sync.Mutex
}

func NewMockClient(id string) *MockClient {
	return &MockClient{IDVal: id}
}

func (m *MockClient) ID() string { return m.IDVal }

func (m *MockClient) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

func (m *MockClient) SendJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.SendBytes(b)
}

func (m *MockClient) SendBytes(b []byte) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	var msg SentMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return
	}
	m.Sent = append(m.Sent, msg)
}

// Events lists the event names received, in order.
func (m *MockClient) Events() []string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	events := make([]string, len(m.Sent))
	for i, msg := range m.Sent {
		events[i] = msg.Event
	}
	return events
}

// Last returns the most recent message, or a zero message when none arrived.
func (m *MockClient) Last() SentMessage {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMessage{}
	}
	return m.Sent[len(m.Sent)-1]
}

// Reset drops everything recorded so far.
func (m *MockClient) Reset() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Sent = nil
}

// CountEvent reports how many messages of one event type arrived.
func (m *MockClient) CountEvent(event string) int {
	n := 0
	for _, e := range m.Events() {
		if e == event {
			n++
		}
	}
	return n
}

// FakeRand replays queued values, cycling when exhausted.
type FakeRand struct {
	Floats []float64
	Ints   []int
	fi, ii int
}

func (r *FakeRand) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0.42
	}
	v := r.Floats[r.fi%len(r.Floats)]
	r.fi++
	return v
}

func (r *FakeRand) Intn(n int) int {
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[r.ii%len(r.Ints)]
	r.ii++
	return v % n
}

// FakeClock advances a fixed current time on every Sleep.
type FakeClock struct {
	Current time.Time
	Slept   []time.Duration
}

func (c *FakeClock) Now() time.Time { return c.Current }

func (c *FakeClock) Sleep(d time.Duration) {
	c.Current = c.Current.Add(d)
	c.Slept = append(c.Slept, d)
}

// FakeSink records every published tick.
type FakeSink struct {
	Ticks []models.PriceTick
	Err   error
	Mu    sync.Mutex
}

func (s *FakeSink) PublishTick(ctx context.Context, tick models.PriceTick) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Ticks = append(s.Ticks, tick)
	return nil
}

func (s *FakeSink) Close() error { return nil }
