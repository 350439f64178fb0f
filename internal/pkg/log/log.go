// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package log is the module's internal logger. Warnings and errors surface
// schema-registration problems; debug output traces compiled fragments.
package log

import (
	"fmt"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

var debugEnabled atomic.Bool

// SetDebug toggles debug output, normally from config at startup.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// Info log information
func Info(format string, a ...interface{}) {
	info := color.New(color.FgWhite, color.BgGreen).SprintFunc()
	fmt.Printf("%s ", info("[INFO] "))
	fmt.Printf(format, a...)
	fmt.Println()
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	warn := color.New(color.FgWhite, color.BgYellow).SprintFunc()
	fmt.Printf("%s ", warn("[WARN] "))
	fmt.Printf(format, a...)
	fmt.Println()
}

// Error log error
func Error(format string, a ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Printf("%s ", red("[Error]"))
	fmt.Printf(format, a...)
	fmt.Println()
}

// Debug logs only when debug output is enabled.
func Debug(format string, a ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s ", cyan("[DEBUG]"))
	fmt.Printf(format, a...)
	fmt.Println()
}

// DebugStruct dumps a value's full structure when debug output is enabled.
func DebugStruct(a ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s %s", cyan("[DEBUG]"), spew.Sdump(a...))
}
