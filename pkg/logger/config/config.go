package config

import (
	"fmt"
	"time"
)

const (
	FATAL_LEVEL = iota
	ERROR_LEVEL
	WARN_LEVEL
	INFO_LEVEL
	DEBUG_LEVEL
)

type Configuration struct {
	Level      int
	TimeFormat string
}

func (c Configuration) Validate() error {
	if c.Level < FATAL_LEVEL || c.Level > DEBUG_LEVEL {
		return fmt.Errorf("log level %d is out of range [%d, %d]", c.Level, FATAL_LEVEL, DEBUG_LEVEL)
	}
	if c.TimeFormat == "" {
		return fmt.Errorf("log time format is empty")
	}
	return nil
}

// Default is info level with RFC3339Nano timestamps.
func Default() Configuration {
	return Configuration{Level: INFO_LEVEL, TimeFormat: time.RFC3339Nano}
}
