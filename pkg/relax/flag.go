package relax

import "github.com/spf13/pflag"

// Flag adapts a Level to a command-line flag.
type Flag struct {
	Level Level
}

// NewFlag returns a flag holding def.
func NewFlag(def Level) *Flag {
	return &Flag{Level: def}
}

// String implements pflag.Value.
func (f *Flag) String() string {
	if f.Level == nil {
		return Full.String()
	}
	return f.Level.String()
}

// Set implements pflag.Value.
func (f *Flag) Set(s string) error {
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	f.Level = l
	return nil
}

// Type implements pflag.Value.
func (f *Flag) Type() string { return "level" }

var _ pflag.Value = (*Flag)(nil)
