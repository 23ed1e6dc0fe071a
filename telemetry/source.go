package telemetry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformedLine is returned for input lines that are not "LABEL X Y Z".
var ErrMalformedLine = errors.New("malformed sample line")

// Source yields samples until it is exhausted (io.EOF) or fails.
type Source interface {
	Next(ctx context.Context) (Sample, error)
}

// LineSource reads whitespace-separated "LABEL X Y Z" lines, one sample per
// line. Blank lines and lines starting with '#' are skipped. Every sample is
// numbered from a shared counter that wraps like the device's.
type LineSource struct {
	scanner *bufio.Scanner

	mu     sync.Mutex
	packet uint16
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

func (s *LineSource) Next(ctx context.Context) (Sample, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Sample{}, fmt.Errorf("read samples: %w", err)
			}
			return Sample{}, io.EOF
		}

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sample, err := ParseLine(line)
		if err != nil {
			return Sample{}, err
		}

		s.mu.Lock()
		sample.Packet = s.packet
		s.packet++
		s.mu.Unlock()
		return sample, nil
	}
}

// ParseLine parses "LABEL X Y Z". The packet number is left zero.
func ParseLine(line string) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Sample{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	var axes [3]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, fmt.Errorf("%w: %q: non-finite reading", ErrMalformedLine, line)
		}
		axes[i] = v
	}

	return Sample{
		Label: strings.ToUpper(fields[0]),
		X:     axes[0],
		Y:     axes[1],
		Z:     axes[2],
	}, nil
}
