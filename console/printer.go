// Package console prints timestamped, labeled progress lines to a terminal.
//
//	12:04:05 [03] fetched shard
//	12:04:06 [03] parsed shard
//
//	12:04:06 [04] fetched shard
//
// Lines are written through a zap console core, so the layout is the
// encoder's: time, bracketed label, message.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Printer writes one line per message. Safe for concurrent use.
type Printer struct {
	mu      sync.Mutex
	w       zapcore.WriteSyncer
	logger  *zap.Logger
	cfg     *config
	last    string
	printed bool
}

// New creates a Printer writing to w.
func New(w io.Writer, opts ...Option) *Printer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		NameKey:          "label",
		EncodeName:       encodeLabel,
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	}
	if cfg.Timestamp {
		encCfg.TimeKey = "time"
	}

	ws := zapcore.AddSync(w)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zapcore.DebugLevel)
	return &Printer{
		w:      ws,
		logger: zap.New(core, zap.WithClock(clock(cfg.Clock))),
		cfg:    cfg,
	}
}

func encodeLabel(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + name + "]")
}

// Print writes msg, prefixed by the timestamp and the formatted label.
// A nil label prints no brackets. When the label differs from the previous
// line's, a blank line is written first.
func (p *Printer) Print(msg string, label any) {
	name := p.formatLabel(label)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.printed && name != p.last {
		_, _ = p.w.Write([]byte("\n"))
	}
	p.last = name
	p.printed = true

	l := p.logger
	if name != "" {
		l = l.Named(name)
	}
	l.Info(msg)
}

// Printf formats according to a format specifier and prints with label.
func (p *Printer) Printf(label any, format string, args ...any) {
	p.Print(fmt.Sprintf(format, args...), label)
}

// Sync flushes the underlying writer.
func (p *Printer) Sync() error {
	return p.logger.Sync()
}

func (p *Printer) formatLabel(label any) string {
	switch v := label.(type) {
	case nil:
		return ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%0*d", p.cfg.IntZeros, v)
	case float32, float64:
		return fmt.Sprintf("% *.*f", p.cfg.FloatWidth, p.cfg.FloatPrec, v)
	case string:
		return fmt.Sprintf("%*s", p.cfg.StringWidth, v)
	}
	return fmt.Sprint(label)
}

// clock adapts a time source to zapcore.Clock.
type clock func() time.Time

func (c clock) Now() time.Time { return c() }

func (c clock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

var (
	stdOnce sync.Once
	std     *Printer
)

// Print writes msg with label to stdout using the default options.
func Print(msg string, label any) {
	stdOnce.Do(func() { std = New(os.Stdout) })
	std.Print(msg, label)
}
