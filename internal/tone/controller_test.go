package tone

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/bhall66/DacTone/internal/register"
)

// recorder is a register.Interface that logs every call.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := r.calls
	r.calls = nil
	return calls
}

func (r *recorder) EnableToneGenerator(ch register.Channel) { r.add("enable %d", ch) }
func (r *recorder) SetClockDivisor(v uint8)                 { r.add("divisor %d", v) }
func (r *recorder) SetFrequencyStep(v uint16)               { r.add("step %d", v) }
func (r *recorder) SetChannelOutputEnabled(ch register.Channel, on bool) {
	r.add("output %d %v", ch, on)
}
func (r *recorder) SetChannelVolumeScale(ch register.Channel, code uint8) {
	r.add("scale %d %d", ch, code)
}
func (r *recorder) SetChannelOffset(ch register.Channel, v int8) { r.add("offset %d %d", ch, v) }
func (r *recorder) SetChannelInvertPattern(ch register.Channel, code uint8) {
	r.add("invert %d %d", ch, code)
}

func newTestController(t *testing.T, ch register.Channel) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c, err := New(NewGenerator(rec), ch)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec.take()
	return c, rec
}

func expectCalls(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	got := rec.take()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected register calls %q, got %q", want, got)
	}
}

func TestNewInvalidChannel(t *testing.T) {
	for _, ch := range []register.Channel{0, 3, -1} {
		if _, err := New(NewGenerator(&recorder{}), ch); !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("channel %d: expected ErrInvalidChannel, got %v", ch, err)
		}
	}
}

func TestNewEnableSequenceAndDefaults(t *testing.T) {
	rec := &recorder{}
	c, err := New(NewGenerator(rec), register.Channel2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	expectCalls(t, rec, "enable 2", "scale 2 0", "offset 2 0", "invert 2 2")

	st := c.State()
	want := State{ChannelState: ChannelState{Channel: register.Channel2, Shape: ShapeSine}}
	if st != want {
		t.Errorf("expected defaults %+v, got %+v", want, st)
	}
}

func TestSetToneProgramsDivisorThenStep(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)

	res := c.SetTone(440)
	if res.Outcome != OutcomeTone || res.Err != nil {
		t.Fatalf("expected tone outcome, got %+v", res)
	}
	if math.Abs(res.Params.ActualHz-440) > 6 {
		t.Errorf("expected within 6 Hz of 440, got %v", res.Params.ActualHz)
	}
	if res.Hz() != int(res.Params.ActualHz) {
		t.Errorf("expected Hz() %d, got %d", int(res.Params.ActualHz), res.Hz())
	}
	expectCalls(t, rec, "divisor 1", "step 7", "output 1 true")

	st := c.State()
	if st.RequestedHz != 440 || st.Params != res.Params || !st.Enabled {
		t.Errorf("unexpected state after tone: %+v", st)
	}
}

func TestSetToneReproducible(t *testing.T) {
	c, _ := newTestController(t, register.Channel1)
	first := c.SetTone(440)
	for i := 0; i < 3; i++ {
		if again := c.SetTone(440); again != first {
			t.Errorf("expected %+v, got %+v", first, again)
		}
	}
}

func TestSetToneZeroStops(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)
	c.SetTone(880)
	rec.take()

	res := c.SetTone(0)
	if res.Outcome != OutcomeSilenced || res.Hz() != 0 {
		t.Errorf("expected silenced, got %+v", res)
	}
	// no generator fields touched
	expectCalls(t, rec, "output 1 false")
	if c.State().Enabled {
		t.Error("expected output disabled")
	}
	if c.QueryFrequency().Step == 0 {
		t.Error("expected generator settings preserved")
	}
}

func TestSetToneOutOfRangeRejected(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)
	c.SetTone(440)
	before := c.State()
	rec.take()

	for _, hz := range []int{-1, 5001, 20000} {
		res := c.SetTone(hz)
		if res.Outcome != OutcomeRejected || res.Hz() != 0 {
			t.Errorf("%d Hz: expected rejected, got %+v", hz, res)
		}
		if !errors.Is(res.Err, ErrFrequencyOutOfRange) {
			t.Errorf("%d Hz: expected ErrFrequencyOutOfRange, got %v", hz, res.Err)
		}
	}
	expectCalls(t, rec)
	if after := c.State(); after != before {
		t.Errorf("expected state unchanged, before %+v after %+v", before, after)
	}
}

func TestSetToneBounds(t *testing.T) {
	c, _ := newTestController(t, register.Channel1)
	for _, hz := range []int{MinFrequency, MaxFrequency} {
		if res := c.SetTone(hz); res.Outcome != OutcomeTone {
			t.Errorf("%d Hz: expected tone, got %+v", hz, res)
		}
	}
}

func TestStopPreservesState(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)
	c.SetTone(1200)
	c.SetVolume(50)
	c.SetOffset(-20)
	before := c.State()
	rec.take()

	c.Stop()
	expectCalls(t, rec, "output 1 false")

	after := c.State()
	before.Enabled = false
	if after != before {
		t.Errorf("expected only enable to change, before %+v after %+v", before, after)
	}
}

func TestSetVolumeBoundaries(t *testing.T) {
	for _, tc := range []struct {
		percent int
		scale   int
	}{
		{1, 3},
		{24, 3},
		{25, 2},
		{49, 2},
		{50, 1},
		{99, 1},
		{100, 0},
		{250, 0},
	} {
		c, rec := newTestController(t, register.Channel2)
		c.SetVolume(tc.percent)
		expectCalls(t, rec, fmt.Sprintf("scale 2 %d", tc.scale))
		if got := c.State().Scale; got != tc.scale {
			t.Errorf("SetVolume(%d): expected scale %d, got %d", tc.percent, tc.scale, got)
		}
	}
}

func TestSetVolumeZeroDisablesOutput(t *testing.T) {
	for _, percent := range []int{0, -10} {
		c, rec := newTestController(t, register.Channel1)
		c.SetTone(440)
		c.SetVolume(50)
		rec.take()

		c.SetVolume(percent)
		expectCalls(t, rec, "output 1 false")
		st := c.State()
		if st.Enabled {
			t.Errorf("SetVolume(%d): expected output disabled", percent)
		}
		if st.Scale != 1 {
			t.Errorf("SetVolume(%d): expected scale kept at 1, got %d", percent, st.Scale)
		}
	}
}

func TestSetOffsetClamps(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)
	for _, tc := range []struct{ in, want int }{
		{200, 127},
		{-200, -128},
		{127, 127},
		{-128, -128},
		{-50, -50},
	} {
		c.SetOffset(tc.in)
		expectCalls(t, rec, fmt.Sprintf("offset 1 %d", tc.want))
		if got := c.State().Offset; got != tc.want {
			t.Errorf("SetOffset(%d): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestSetShapeMasksLowBits(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)
	for _, tc := range []struct {
		in   int
		want Shape
	}{
		{0, ShapeDirect},
		{1, ShapeInvertAll},
		{2, ShapeSine},
		{3, ShapeInvertLow},
		{6, ShapeSine},
		{7, ShapeInvertLow},
	} {
		c.SetShape(tc.in)
		expectCalls(t, rec, fmt.Sprintf("invert 1 %d", tc.want))
		if got := c.State().Shape; got != tc.want {
			t.Errorf("SetShape(%d): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestIsClipping(t *testing.T) {
	c, _ := newTestController(t, register.Channel1)
	if c.IsClipping() {
		t.Error("expected defaults not to clip")
	}
	c.SetOffset(10)
	if !c.IsClipping() {
		t.Error("expected full volume with offset 10 to clip")
	}
	c.SetVolume(50)
	if c.IsClipping() {
		t.Error("expected half volume with offset 10 not to clip")
	}
	if c.State().Clipping != c.IsClipping() {
		t.Error("expected State().Clipping to agree with IsClipping")
	}
}

func TestSetFrequencyRaw(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)

	if err := c.SetFrequencyRaw(3, 100); err != nil {
		t.Fatalf("SetFrequencyRaw: %v", err)
	}
	expectCalls(t, rec, "divisor 3", "step 100", "output 1 true")

	p := c.QueryFrequency()
	if p.Divisor != 3 || p.Step != 100 || p.ActualHz != FrequencyOf(3, 100) {
		t.Errorf("unexpected params %+v", p)
	}
	if got := c.State().RequestedHz; got != 3140 {
		t.Errorf("expected requested 3140, got %d", got)
	}
}

func TestSetFrequencyRawOutOfRange(t *testing.T) {
	c, rec := newTestController(t, register.Channel1)
	for _, tc := range [][2]int{{8, 1}, {-1, 1}, {0, 0}, {0, 250}} {
		if err := c.SetFrequencyRaw(tc[0], tc[1]); !errors.Is(err, ErrParamOutOfRange) {
			t.Errorf("SetFrequencyRaw(%d, %d): expected ErrParamOutOfRange, got %v", tc[0], tc[1], err)
		}
	}
	expectCalls(t, rec)
}

func TestChannelsShareGenerator(t *testing.T) {
	gen := NewGenerator(register.NewFile(64))
	c1, err := New(gen, register.Channel1)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := New(gen, register.Channel2)
	if err != nil {
		t.Fatal(err)
	}

	res := c1.SetTone(440)
	if got := c2.QueryFrequency(); got != res.Params {
		t.Errorf("expected channel 2 to see %+v, got %+v", res.Params, got)
	}

	c2.SetTone(1000)
	if c1.QueryFrequency() != c2.QueryFrequency() {
		t.Error("expected both channels to report the same generator settings")
	}

	// per-channel fields stay separate
	c1.SetVolume(25)
	if c2.State().Scale != 0 {
		t.Errorf("expected channel 2 scale untouched, got %d", c2.State().Scale)
	}
	// channel 2's tone did not enable channel 1's output
	c1.Stop()
	c2.SetTone(500)
	if c1.State().Enabled {
		t.Error("expected channel 1 to stay disabled")
	}
}

func TestControllerRegisterEncoding(t *testing.T) {
	regs := register.NewFile(64)
	c, err := New(NewGenerator(regs), register.Channel1)
	if err != nil {
		t.Fatal(err)
	}
	c.SetTone(440)
	c.SetVolume(30)
	c.SetOffset(-50)

	cf := register.FieldsFor(register.Channel1)
	if regs.Field(register.CK8MDivSel) != 1 || regs.Field(register.SwFstep) != 7 {
		t.Errorf("expected divisor 1 step 7, got %d %d",
			regs.Field(register.CK8MDivSel), regs.Field(register.SwFstep))
	}
	if regs.Field(cf.Scale) != 2 {
		t.Errorf("expected scale 2, got %d", regs.Field(cf.Scale))
	}
	if int8(regs.Field(cf.DC)) != -50 {
		t.Errorf("expected offset -50, got %d", int8(regs.Field(cf.DC)))
	}
	if regs.Field(cf.XPD) != 1 {
		t.Error("expected output enabled")
	}
}

func TestConcurrentTonesStayConsistent(t *testing.T) {
	regs := register.NewFile(16)
	gen := NewGenerator(regs)
	c1, _ := New(gen, register.Channel1)
	c2, _ := New(gen, register.Channel2)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(hz int) {
			defer wg.Done()
			c1.SetTone(hz)
		}(100 + i)
		go func(hz int) {
			defer wg.Done()
			c2.SetTone(hz)
		}(3000 + i)
	}
	wg.Wait()

	p := gen.Params()
	if int(regs.Field(register.CK8MDivSel)) != p.Divisor || int(regs.Field(register.SwFstep)) != p.Step {
		t.Errorf("registers (%d, %d) disagree with cached %+v",
			regs.Field(register.CK8MDivSel), regs.Field(register.SwFstep), p)
	}
}
