package tone

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidNote = errors.New("tone: invalid note")

var semitones = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ParseNote converts a note name such as "A5", "D#4", "Eb3" or "cs6" to
// whole hertz in equal temperament with A4 = 440Hz. Octaves follow
// scientific pitch notation.
func ParseNote(name string) (int, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	semi, ok := semitones[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: bad letter in %q", ErrInvalidNote, name)
	}
	s = s[1:]
	switch s[0] {
	case '#', 's', 'S':
		semi++
		s = s[1:]
	case 'b':
		semi--
		s = s[1:]
	}

	octave, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad octave in %q", ErrInvalidNote, name)
	}

	midi := 12*(octave+1) + semi
	hz := int(math.Round(440 * math.Pow(2, float64(midi-69)/12)))
	if hz < MinFrequency || hz > MaxFrequency {
		return 0, fmt.Errorf("%w: %s is %d Hz", ErrFrequencyOutOfRange, name, hz)
	}
	return hz, nil
}
