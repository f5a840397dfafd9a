/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyChunkSize   = "ChunkSize"
	KeyLogging     = "logging"
	KeyMaxHeight   = "MaxHeight"
	KeyMaxWidth    = "MaxWidth"
	KeyMode        = "Mode"
	KeyPoolTimeout = "PoolTimeout"
	KeyTraceGroups = "TraceGroups"
	KeyTraceSyntax = "TraceSyntax"
)

// Config map parameter types.
const (
	typeUint = "uint"
)

// Default variable values.
const (
	defaultVerbosity   = logging.Info
	defaultMode        = ModeFull
	defaultMaxWidth    = 4096
	defaultMaxHeight   = 2304
	defaultPoolTimeout = 5 * time.Second
	defaultChunkSize   = 4096 // bytes
)

// modes maps lower case mode names to Mode consts.
var modes = map[string]uint8{
	"full":       ModeFull,
	"prediction": ModePrediction,
	"syntax":     ModeSyntax,
	"header":     ModeHeader,
}

// Variables describes the variables that can be used for decoder control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyChunkSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.ChunkSize = parseUint(KeyChunkSize, v, c) },
		Validate: func(c *Config) {
			c.ChunkSize = lessThanOrEqual(KeyChunkSize, c.ChunkSize, 0, c, defaultChunkSize)
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyMaxHeight,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MaxHeight = parseUint(KeyMaxHeight, v, c) },
		Validate: func(c *Config) {
			c.MaxHeight = lessThanOrEqual(KeyMaxHeight, c.MaxHeight, 0, c, defaultMaxHeight)
		},
	},
	{
		Name:   KeyMaxWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MaxWidth = parseUint(KeyMaxWidth, v, c) },
		Validate: func(c *Config) {
			c.MaxWidth = lessThanOrEqual(KeyMaxWidth, c.MaxWidth, 0, c, defaultMaxWidth)
		},
	},
	{
		Name:   KeyMode,
		Type:   "enum:Full,Prediction,Syntax,Header",
		Update: func(c *Config, v string) { c.Mode = parseEnum(KeyMode, v, modes, c) },
		Validate: func(c *Config) {
			if c.Mode > ModeHeader {
				c.LogInvalidField(KeyMode, defaultMode)
				c.Mode = defaultMode
			}
		},
	},
	{
		Name: KeyPoolTimeout,
		Type: typeUint,
		Update: func(c *Config, v string) {
			c.PoolTimeout = time.Duration(parseUint(KeyPoolTimeout, v, c)) * time.Millisecond
		},
		Validate: func(c *Config) {
			if c.PoolTimeout <= 0 {
				c.LogInvalidField(KeyPoolTimeout, defaultPoolTimeout)
				c.PoolTimeout = defaultPoolTimeout
			}
		},
	},
	{
		Name:   KeyTraceGroups,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.TraceGroups = uint32(parseMask(KeyTraceGroups, v, c)) },
	},
	{
		Name:   KeyTraceSyntax,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.TraceSyntax = uint32(parseMask(KeyTraceSyntax, v, c)) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

// parseMask parses a 32 bit mask given in decimal or 0x prefixed hex.
func parseMask(n, v string, c *Config) uint64 {
	_v, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected 32 bit mask for param %s", n), "value", v)
	}
	return _v
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
