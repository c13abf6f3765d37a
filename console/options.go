package console

import "time"

// Option configures a Printer.
type Option func(*config)

type config struct {
	Timestamp   bool
	IntZeros    int
	FloatWidth  int
	FloatPrec   int
	StringWidth int
	Clock       func() time.Time
}

func defaultConfig() *config {
	return &config{
		Timestamp:  true,
		IntZeros:   1,
		FloatWidth: 1,
		FloatPrec:  2,
		Clock:      time.Now,
	}
}

// WithTimestamp toggles the leading HH:MM:SS stamp.
func WithTimestamp(on bool) Option {
	return func(c *config) {
		c.Timestamp = on
	}
}

// WithIntZeros zero-pads integer labels to n digits.
func WithIntZeros(n int) Option {
	return func(c *config) {
		c.IntZeros = n
	}
}

// WithFloatFormat formats float labels with the given width and decimals.
func WithFloatFormat(width, decimals int) Option {
	return func(c *config) {
		c.FloatWidth = width
		c.FloatPrec = decimals
	}
}

// WithStringWidth right-aligns string labels to n columns.
func WithStringWidth(n int) Option {
	return func(c *config) {
		c.StringWidth = n
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.Clock = now
	}
}
