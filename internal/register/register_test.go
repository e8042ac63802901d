package register

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/bhall66/DacTone/internal/metrics"
)

func TestFieldEncodeDecode(t *testing.T) {
	f := Field{Name: "test", Shift: 4, Width: 3}
	if f.Mask() != 0x70 {
		t.Fatalf("expected mask 0x70, got 0x%X", f.Mask())
	}

	word := f.Encode(0xFFFFFFFF, 0)
	if word != 0xFFFFFF8F {
		t.Errorf("expected 0xFFFFFF8F, got 0x%08X", word)
	}

	// bits beyond the width are dropped, neighbours untouched
	word = f.Encode(0x01, 0xF)
	if word != 0x71 {
		t.Errorf("expected 0x71, got 0x%02X", word)
	}
	if got := f.Decode(word); got != 7 {
		t.Errorf("expected decode 7, got %d", got)
	}
}

func TestChannelValid(t *testing.T) {
	for _, tc := range []struct {
		ch    Channel
		valid bool
		gpio  int
	}{
		{Channel1, true, 25},
		{Channel2, true, 26},
		{0, false, 0},
		{3, false, 0},
	} {
		if tc.ch.Valid() != tc.valid {
			t.Errorf("%d: expected valid=%v", int(tc.ch), tc.valid)
		}
		if tc.ch.GPIO() != tc.gpio {
			t.Errorf("%d: expected GPIO %d, got %d", int(tc.ch), tc.gpio, tc.ch.GPIO())
		}
	}
}

func TestFileEnableToneGenerator(t *testing.T) {
	f := NewFile(16)
	f.EnableToneGenerator(Channel2)

	if f.Field(SwToneEn) != 1 {
		t.Error("expected tone generator enabled")
	}
	cf := FieldsFor(Channel2)
	if f.Field(cf.CWEn) != 1 {
		t.Error("expected channel 2 connected to the generator")
	}
	if f.Field(cf.Invert) != 2 {
		t.Errorf("expected MSB invert pattern 2, got %d", f.Field(cf.Invert))
	}
	if f.Field(FieldsFor(Channel1).CWEn) != 0 {
		t.Error("channel 1 must not be connected")
	}
}

func TestFileFrequencyFields(t *testing.T) {
	f := NewFile(16)
	f.SetClockDivisor(5)
	f.SetFrequencyStep(249)

	if f.Field(CK8MDivSel) != 5 {
		t.Errorf("expected divisor 5, got %d", f.Field(CK8MDivSel))
	}
	if f.Field(SwFstep) != 249 {
		t.Errorf("expected step 249, got %d", f.Field(SwFstep))
	}
	if got := f.Read(RTCCntlClkConf); got != 5<<12 {
		t.Errorf("expected clk conf 0x%X, got 0x%X", 5<<12, got)
	}
}

func TestFileChannelFieldsAreDisjoint(t *testing.T) {
	f := NewFile(16)
	f.SetChannelOffset(Channel1, -1)
	f.SetChannelOffset(Channel2, 5)
	f.SetChannelVolumeScale(Channel1, 3)
	f.SetChannelInvertPattern(Channel2, 1)

	c1, c2 := FieldsFor(Channel1), FieldsFor(Channel2)
	if f.Field(c1.DC) != 0xFF {
		t.Errorf("expected two's complement 0xFF for -1, got 0x%X", f.Field(c1.DC))
	}
	if f.Field(c2.DC) != 5 {
		t.Errorf("expected channel 2 offset 5, got %d", f.Field(c2.DC))
	}
	if f.Field(c2.Scale) != 0 {
		t.Errorf("channel 2 scale must be untouched, got %d", f.Field(c2.Scale))
	}
	if f.Field(c1.Invert) != 0 || f.Field(c2.Invert) != 1 {
		t.Errorf("unexpected invert fields: %d %d", f.Field(c1.Invert), f.Field(c2.Invert))
	}
}

func TestFileOutputEnable(t *testing.T) {
	f := NewFile(16)
	f.SetChannelOutputEnabled(Channel1, true)

	cf := FieldsFor(Channel1)
	if f.Field(cf.XPD) != 1 || f.Field(cf.XPDForce) != 1 {
		t.Error("expected pad powered and forced")
	}

	f.SetChannelOutputEnabled(Channel1, false)
	if f.Field(cf.XPD) != 0 {
		t.Error("expected pad powered down")
	}
}

func TestFileSnapshotJournal(t *testing.T) {
	f := NewFile(2)
	f.SetClockDivisor(1)
	f.SetFrequencyStep(7)
	f.SetChannelVolumeScale(Channel1, 2)

	snap := f.Snapshot(0)
	if len(snap.Words) != len(Addrs) {
		t.Errorf("expected %d words, got %d", len(Addrs), len(snap.Words))
	}
	if snap.Written != 3 {
		t.Errorf("expected 3 writes, got %d", snap.Written)
	}
	if len(snap.Journal) != 2 {
		t.Fatalf("expected journal capped at 2, got %d", len(snap.Journal))
	}
	if snap.Journal[0].Field != "SENS_SW_FSTEP" || snap.Journal[0].Value != 7 {
		t.Errorf("unexpected oldest entry %+v", snap.Journal[0])
	}
	if snap.Journal[1].Seq != 3 || snap.Journal[1].Field != "SENS_DAC_SCALE1" {
		t.Errorf("unexpected newest entry %+v", snap.Journal[1])
	}
}

func TestInstrumentForwardsAndCounts(t *testing.T) {
	f := NewFile(16)
	regs := Instrument(f, zaptest.NewLogger(t))

	before := testutil.ToFloat64(metrics.RegisterWritesTotal.WithLabelValues("set_frequency_step"))
	regs.SetFrequencyStep(42)
	after := testutil.ToFloat64(metrics.RegisterWritesTotal.WithLabelValues("set_frequency_step"))

	if f.Field(SwFstep) != 42 {
		t.Errorf("expected step 42 forwarded, got %d", f.Field(SwFstep))
	}
	if after-before != 1 {
		t.Errorf("expected counter +1, got %v", after-before)
	}
}
