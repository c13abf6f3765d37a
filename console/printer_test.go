package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 7, 5, 3, 0, time.Local)
}

func TestPrintLayout(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, WithClock(fixedClock))

	p.Print("starting", nil)
	assert.Equal(t, "07:05:03 starting\n", buf.String())

	buf.Reset()
	p = New(&buf, WithClock(fixedClock))
	p.Print("worker up", 3)
	assert.Equal(t, "07:05:03 [3] worker up\n", buf.String())
}

func TestLabelFormatting(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		label any
		want  string
	}{
		{"int default", nil, 7, "[7] m\n"},
		{"int zeros", []Option{WithIntZeros(3)}, 7, "[007] m\n"},
		{"float default", nil, 1.5, "[ 1.50] m\n"},
		{"float format", []Option{WithFloatFormat(6, 1)}, 2.25, "[   2.2] m\n"},
		{"string default", nil, "gpu", "[gpu] m\n"},
		{"string width", []Option{WithStringWidth(5)}, "gpu", "[  gpu] m\n"},
		{"other", nil, []int{1, 2}, "[[1 2]] m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := New(&buf, append(tt.opts, WithTimestamp(false))...)
			p.Print("m", tt.label)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestBlankLineOnLabelChange(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, WithTimestamp(false))

	p.Print("a", 1)
	p.Print("b", 1)
	p.Print("c", 2)
	p.Printf(2, "%s-%d", "d", 4)
	p.Print("e", nil)

	assert.Equal(t, "[1] a\n[1] b\n\n[2] c\n[2] d-4\n\ne\n", buf.String())
}

func TestConcurrentPrintsKeepLinesWhole(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, WithTimestamp(false))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				p.Print("tick", i)
			}
		}()
	}
	wg.Wait()
	require.NoError(t, p.Sync())

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		assert.Regexp(t, `^\[\d\] tick$`, line)
	}
}
