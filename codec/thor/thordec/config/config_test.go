/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate and Update).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:      dl,
		LogLevel:    logging.Info,
		Mode:        defaultMode,
		MaxWidth:    defaultMaxWidth,
		MaxHeight:   defaultMaxHeight,
		PoolTimeout: defaultPoolTimeout,
		ChunkSize:   defaultChunkSize,
	}

	got := Config{Logger: dl, LogLevel: logging.Info, Mode: 42}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestValidateNoLogger(t *testing.T) {
	var c Config
	if err := c.Validate(); err != ErrNoLogger {
		t.Errorf("unexpected error: got %v want %v", err, ErrNoLogger)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"ChunkSize":   "188",
		"logging":     "Debug",
		"MaxHeight":   "720",
		"MaxWidth":    "1280",
		"Mode":        "Header",
		"PoolTimeout": "250",
		"TraceGroups": "0x42",
		"TraceSyntax": "7",
	}

	dl := &dumbLogger{}

	want := Config{
		Logger:      dl,
		LogLevel:    logging.Debug,
		Mode:        ModeHeader,
		MaxWidth:    1280,
		MaxHeight:   720,
		TraceGroups: 0x42,
		TraceSyntax: 7,
		PoolTimeout: 250 * time.Millisecond,
		ChunkSize:   188,
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}
