package register

import "fmt"

// Addr is a peripheral register address.
type Addr uint32

// ESP32 registers involved in cosine generation.
const (
	RTCCntlClkConf  Addr = 0x3FF48070 // RTC_CNTL_CLK_CONF_REG
	RTCIOPadDAC1    Addr = 0x3FF48484 // RTC_IO_PAD_DAC1_REG
	RTCIOPadDAC2    Addr = 0x3FF48488 // RTC_IO_PAD_DAC2_REG
	SensSarDACCtrl1 Addr = 0x3FF48898 // SENS_SAR_DAC_CTRL1_REG
	SensSarDACCtrl2 Addr = 0x3FF4889C // SENS_SAR_DAC_CTRL2_REG
)

var addrNames = map[Addr]string{
	RTCCntlClkConf:  "RTC_CNTL_CLK_CONF_REG",
	RTCIOPadDAC1:    "RTC_IO_PAD_DAC1_REG",
	RTCIOPadDAC2:    "RTC_IO_PAD_DAC2_REG",
	SensSarDACCtrl1: "SENS_SAR_DAC_CTRL1_REG",
	SensSarDACCtrl2: "SENS_SAR_DAC_CTRL2_REG",
}

// Addrs lists the modelled registers in address order.
var Addrs = []Addr{RTCCntlClkConf, RTCIOPadDAC1, RTCIOPadDAC2, SensSarDACCtrl1, SensSarDACCtrl2}

// Name returns the datasheet name of the register.
func (a Addr) Name() string {
	if n, ok := addrNames[a]; ok {
		return n
	}
	return a.String()
}

func (a Addr) String() string {
	return fmt.Sprintf("0x%08X", uint32(a))
}

// Field is a bitfield within a register.
type Field struct {
	Name  string
	Addr  Addr
	Shift uint
	Width uint
}

// Mask returns the field's bits in register position.
func (f Field) Mask() uint32 {
	return (1<<f.Width - 1) << f.Shift
}

// Encode returns word with the field replaced by v. Bits of v beyond the
// field width are dropped.
func (f Field) Encode(word, v uint32) uint32 {
	return word&^f.Mask() | (v<<f.Shift)&f.Mask()
}

// Decode extracts the field from word.
func (f Field) Decode(word uint32) uint32 {
	return (word & f.Mask()) >> f.Shift
}

// Shared generator fields.
var (
	CK8MDivSel = Field{Name: "RTC_CNTL_CK8M_DIV_SEL", Addr: RTCCntlClkConf, Shift: 12, Width: 3}
	SwFstep    = Field{Name: "SENS_SW_FSTEP", Addr: SensSarDACCtrl1, Shift: 0, Width: 16}
	SwToneEn   = Field{Name: "SENS_SW_TONE_EN", Addr: SensSarDACCtrl1, Shift: 16, Width: 1}
)

// ChannelFields are the per-channel fields of one DAC output.
type ChannelFields struct {
	DC       Field // DC offset, 8-bit two's complement
	Scale    Field
	Invert   Field
	CWEn     Field // cosine generator connected
	XPD      Field // pad powered
	XPDForce Field
}

var channelFields = map[Channel]ChannelFields{
	Channel1: {
		DC:       Field{Name: "SENS_DAC_DC1", Addr: SensSarDACCtrl2, Shift: 0, Width: 8},
		Scale:    Field{Name: "SENS_DAC_SCALE1", Addr: SensSarDACCtrl2, Shift: 16, Width: 2},
		Invert:   Field{Name: "SENS_DAC_INV1", Addr: SensSarDACCtrl2, Shift: 20, Width: 2},
		CWEn:     Field{Name: "SENS_DAC_CW_EN1", Addr: SensSarDACCtrl2, Shift: 24, Width: 1},
		XPD:      Field{Name: "RTC_IO_PDAC1_XPD_DAC", Addr: RTCIOPadDAC1, Shift: 18, Width: 1},
		XPDForce: Field{Name: "RTC_IO_PDAC1_DAC_XPD_FORCE", Addr: RTCIOPadDAC1, Shift: 10, Width: 1},
	},
	Channel2: {
		DC:       Field{Name: "SENS_DAC_DC2", Addr: SensSarDACCtrl2, Shift: 8, Width: 8},
		Scale:    Field{Name: "SENS_DAC_SCALE2", Addr: SensSarDACCtrl2, Shift: 18, Width: 2},
		Invert:   Field{Name: "SENS_DAC_INV2", Addr: SensSarDACCtrl2, Shift: 22, Width: 2},
		CWEn:     Field{Name: "SENS_DAC_CW_EN2", Addr: SensSarDACCtrl2, Shift: 25, Width: 1},
		XPD:      Field{Name: "RTC_IO_PDAC2_XPD_DAC", Addr: RTCIOPadDAC2, Shift: 18, Width: 1},
		XPDForce: Field{Name: "RTC_IO_PDAC2_DAC_XPD_FORCE", Addr: RTCIOPadDAC2, Shift: 10, Width: 1},
	},
}

// FieldsFor returns the fields of ch. It panics on an invalid channel;
// callers validate channels at construction.
func FieldsFor(ch Channel) ChannelFields {
	f, ok := channelFields[ch]
	if !ok {
		panic(fmt.Sprintf("register: no fields for %v", ch))
	}
	return f
}
