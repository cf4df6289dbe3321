package app

import "time"

// Default assembler limits, matching the library defaults.
const (
	DefaultMessageTimeout = 60 * time.Second
	DefaultMaxGroups      = 100
)

// Config holds application configuration.
type Config struct {
	InputFile      string // "-" or empty reads stdin
	MessageTimeout time.Duration
	MaxGroups      int
	DecodeBinary   bool   // decode recognized (DAC,FI) application payloads
	LogDir         string // when set, decoded output also goes to rotated logs
	LogRotateUTC   bool
	Verbose        bool
	ShowVersion    bool
}
