/*
NAME
  config.go

DESCRIPTION
  config.go provides the configuration settings for a thor decoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for thordec.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Decoding modes, from most to least work performed per access unit.
const (
	// ModeFull performs complete reconstruction including in-loop filtering
	// and reference padding.
	ModeFull uint8 = iota

	// ModePrediction decodes coding tree units but performs no in-loop
	// filtering and leaves reference sample data untouched.
	ModePrediction

	// ModeSyntax parses all syntax, including coding tree units, without
	// filtering.
	ModeSyntax

	// ModeHeader parses only sequence and frame headers and skips the
	// remainder of each access unit.
	ModeHeader
)

// ErrNoLogger is returned by Validate when no Logger has been provided.
var ErrNoLogger = errors.New("no logger provided")

// Config provides parameters relevant to a thor decoder instance. A config
// must be passed to the decoder constructor. Default values for fields are
// defined in variables.go.
type Config struct {
	// Logger holds an implementation of the Logger interface as defined in
	// the ausocean/utils/logging package. This must be set for the decoder to
	// work correctly.
	Logger logging.Logger

	// LogLevel is the decoder logging verbosity level.
	LogLevel int8

	// Mode is the decoding mode, one of the Mode consts above.
	Mode uint8

	// MaxWidth and MaxHeight bound the frame dimensions a sequence header may
	// declare. Headers exceeding them fail buffer allocation.
	MaxWidth  uint
	MaxHeight uint

	// TraceGroups and TraceSyntax are masks of trace types (see thordec)
	// for which group and syntax element events are delivered to a trace
	// listener.
	TraceGroups uint32
	TraceSyntax uint32

	// PoolTimeout is the time a pool backed source waits for the next
	// segment before checking whether its producer has finished.
	PoolTimeout time.Duration

	// ChunkSize is the segment size in bytes used by reader backed sources.
	ChunkSize uint
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrNoLogger
	}
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
