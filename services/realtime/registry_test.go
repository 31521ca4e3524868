package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) Debug(msg string, _ ...interface{}) { l.log("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...interface{})  { l.log("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...interface{})  { l.log("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.log("error", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...interface{}) { l.log("fatal", msg) }

type fakeChannel struct {
	name string
	err  error

	mu     sync.Mutex
	frames [][]byte
	closed bool

	inFlight    int32
	maxInFlight int32
}

func newFakeChannel(name string) *fakeChannel {
	return &fakeChannel{name: name}
}

func (c *fakeChannel) Send(frame []byte) error {
	n := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)
	for {
		max := atomic.LoadInt32(&c.maxInFlight)
		if n <= max || atomic.CompareAndSwapInt32(&c.maxInFlight, max, n) {
			break
		}
	}
	time.Sleep(10 * time.Microsecond) // widen the race window

	if c.err != nil {
		return c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, append([]byte(nil), frame...))
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

func (c *fakeChannel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func setup() (*Registry, *recordingLogger) {
	logger := new(recordingLogger)
	return NewRegistry(logger), logger
}

func TestRegistry_SendToScenario(t *testing.T) {
	reg, logger := setup()
	a := newFakeChannel("A")

	reg.Register("u1", a)
	payload := map[string]string{"type": "new_message", "text": "hi"}
	assert.True(t, reg.SendTo("u1", payload))

	frames := a.Frames()
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"type":"new_message","text":"hi"}`, string(frames[0]))

	reg.Unregister("u1", a)
	assert.False(t, reg.SendTo("u1", payload))
	assert.Len(t, a.Frames(), 1, "no frame expected after unregister")
	assert.Equal(t, 1, logger.count("debug"))
	assert.Equal(t, 0, logger.count("warn"))
}

func TestRegistry_SendToOnlyTarget(t *testing.T) {
	reg, _ := setup()
	a, b := newFakeChannel("A"), newFakeChannel("B")
	reg.Register("u1", a)
	reg.Register("u2", b)

	msg := struct {
		Type string `json:"type"`
		At   int64  `json:"at"`
	}{Type: "ping", At: 42}
	want, _ := json.Marshal(msg)

	assert.True(t, reg.SendTo("u2", msg))
	assert.Empty(t, a.Frames())
	require.Len(t, b.Frames(), 1)
	assert.Equal(t, want, b.Frames()[0])
}

func TestRegistry_SendToUnknown(t *testing.T) {
	reg, logger := setup()
	assert.NotPanics(t, func() {
		assert.False(t, reg.SendTo("ghost", map[string]string{"type": "x"}))
	})
	assert.Equal(t, 1, logger.count("debug"))
}

func TestRegistry_SendToUnencodable(t *testing.T) {
	reg, logger := setup()
	a := newFakeChannel("A")
	reg.Register("u1", a)

	assert.False(t, reg.SendTo("u1", map[string]interface{}{"bad": make(chan int)}))
	assert.Empty(t, a.Frames())
	assert.Equal(t, 1, logger.count("error"))
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	reg, _ := setup()
	c1, c2 := newFakeChannel("c1"), newFakeChannel("c2")

	reg.Register("u1", c1)
	reg.Register("u1", c2)
	assert.Equal(t, 1, reg.Len())
	assert.True(t, c1.IsClosed(), "replaced channel should be closed")
	assert.False(t, c2.IsClosed())

	assert.True(t, reg.SendTo("u1", "hello"))
	assert.Empty(t, c1.Frames())
	assert.Len(t, c2.Frames(), 1)

	// re-registering the very same channel does not close it
	reg.Register("u1", c2)
	assert.False(t, c2.IsClosed())
}

func TestRegistry_UnregisterStale(t *testing.T) {
	reg, _ := setup()
	c1, c2 := newFakeChannel("c1"), newFakeChannel("c2")

	reg.Register("u1", c1)
	reg.Register("u1", c2)
	reg.Unregister("u1", c1) // stale
	assert.Equal(t, 1, reg.Len())
	assert.True(t, reg.SendTo("u1", "still here"))
	assert.Len(t, c2.Frames(), 1)

	reg.Unregister("u2", c2) // absent identity
	assert.Equal(t, 1, reg.Len())

	reg.Unregister("u1", c2)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_BroadcastPartialFailure(t *testing.T) {
	reg, logger := setup()
	a, b, c := newFakeChannel("A"), newFakeChannel("B"), newFakeChannel("C")
	b.err = errors.New("broken pipe")
	reg.Register("a", a)
	reg.Register("b", b)
	reg.Register("c", c)

	delivered := reg.Broadcast(map[string]string{"type": "announcement"})
	assert.Equal(t, 2, delivered)
	assert.Len(t, a.Frames(), 1)
	assert.Empty(t, b.Frames())
	assert.Len(t, c.Frames(), 1)
	assert.Equal(t, 1, logger.count("warn"))

	// the failing entry is left in place
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_WriteFailureNotEscalated(t *testing.T) {
	reg, logger := setup()
	a := newFakeChannel("A")
	a.err = errors.New("connection reset")
	reg.Register("u1", a)

	assert.False(t, reg.SendTo("u1", "hi"))
	assert.Equal(t, 1, logger.count("warn"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SerializesWritesPerIdentity(t *testing.T) {
	reg, _ := setup()
	a := newFakeChannel("A")
	reg.Register("u1", a)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.SendTo("u1", i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, a.Frames(), 50)
	assert.Equal(t, int32(1), atomic.LoadInt32(&a.maxInFlight), "writes to one channel must not overlap")
}

func TestRegistry_SerializesWritesAcrossSameChannelRegister(t *testing.T) {
	reg, _ := setup()
	a := newFakeChannel("A")
	reg.Register("u1", a)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			reg.SendTo("u1", i)
		}(i)
		go func() {
			defer wg.Done()
			reg.Register("u1", a)
		}()
	}
	wg.Wait()

	assert.Len(t, a.Frames(), 200)
	assert.False(t, a.IsClosed())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, int32(1), atomic.LoadInt32(&a.maxInFlight), "writes to one channel must not overlap")
}

func TestRegistry_PreservesOrderPerIdentity(t *testing.T) {
	reg, _ := setup()
	a := newFakeChannel("A")
	reg.Register("u1", a)

	for i := 0; i < 20; i++ {
		reg.SendTo("u1", i)
	}
	frames := a.Frames()
	require.Len(t, frames, 20)
	for i, f := range frames {
		assert.Equal(t, fmt.Sprint(i), string(f))
	}
}

func TestRegistry_ConcurrentDisjointIdentities(t *testing.T) {
	reg, _ := setup()
	const (
		nIdentities = 32
		nOps        = 200
	)

	type result struct {
		registered bool
		ch         *fakeChannel
	}
	results := make([]result, nIdentities)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// background senders hitting random identities
	for s := 0; s < 4; s++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					reg.SendTo(fmt.Sprintf("user-%d", rnd.Intn(nIdentities)), "noise")
					reg.Broadcast("noise")
				}
			}
		}(int64(s))
	}

	var owners sync.WaitGroup
	for i := 0; i < nIdentities; i++ {
		owners.Add(1)
		go func(i int) {
			defer owners.Done()
			rnd := rand.New(rand.NewSource(int64(1000 + i)))
			identity := fmt.Sprintf("user-%d", i)
			var current *fakeChannel
			var res result
			for op := 0; op < nOps; op++ {
				if rnd.Intn(2) == 0 || current == nil {
					current = newFakeChannel(fmt.Sprintf("%s-%d", identity, op))
					reg.Register(identity, current)
					res = result{registered: true, ch: current}
				} else {
					reg.Unregister(identity, current)
					res = result{registered: false}
					current = nil
				}
			}
			results[i] = res
		}(i)
	}
	owners.Wait()
	close(stop)
	wg.Wait()

	var wantLen int
	for i, res := range results {
		identity := fmt.Sprintf("user-%d", i)
		if !res.registered {
			assert.False(t, reg.SendTo(identity, "final"), identity)
			continue
		}
		wantLen++
		before := len(res.ch.Frames())
		assert.True(t, reg.SendTo(identity, "final"), identity)
		frames := res.ch.Frames()
		require.Len(t, frames, before+1, identity)
		assert.Equal(t, `"final"`, string(frames[len(frames)-1]), identity)
	}
	assert.Equal(t, wantLen, reg.Len())
}

func TestRegistry_Close(t *testing.T) {
	reg, _ := setup()
	a, b := newFakeChannel("A"), newFakeChannel("B")
	reg.Register("a", a)
	reg.Register("b", b)

	reg.Close()
	assert.True(t, a.IsClosed())
	assert.True(t, b.IsClosed())
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.SendTo("a", "hi"))

	late := newFakeChannel("late")
	reg.Register("c", late)
	assert.True(t, late.IsClosed())
	assert.Equal(t, 0, reg.Len())
}
