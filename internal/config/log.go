package config

import "log/slog"

type Log struct {
	Format    LogFormat  `env:"LOG_FORMAT" envDefault:"JSON"`
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AddSource bool       `env:"LOG_ADD_SOURCE" envDefault:"true"`
}

// LogFormat selects the slog handler: JSON for machines, TEXT (tint) for
// terminals.
type LogFormat uint8

const (
	LogFormatJSON LogFormat = iota
	LogFormatText
)

var logFormatNames = []string{"JSON", "TEXT"}

func (f LogFormat) String() string {
	return enumString(f, logFormatNames)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *LogFormat) UnmarshalText(text []byte) error {
	v, err := parseEnum[LogFormat]("log format", text, logFormatNames)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
