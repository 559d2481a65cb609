/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command rttidemo registers three types sharing the short name MyClass in
// different packages, checks their qualified names and sizes, and prints the
// resulting type tree.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"dirpx.dev/rtti"
	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/cmd/rttidemo/mynamespace"
	"dirpx.dev/rtti/cmd/rttidemo/mynamespace/mynamespace2"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/debug"
	"dirpx.dev/rtti/info"
	"dirpx.dev/rtti/utils/names"
)

// demoPath is this command's import path. Trimming it (and "main") leaves
// names relative to the demo root.
const demoPath = "dirpx.dev/rtti/cmd/rttidemo"

// errChecksFailed is returned when a registered name or size is wrong.
var errChecksFailed = errors.New("type checks failed")

// MyClass is registered as "MyClass".
type MyClass struct {
	A, B int64
}

var _ = rtti.Declare[MyClass, rtti.Object]()

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// check is one expectation about a registered type.
type check struct {
	info *info.Info
	name string
	size uintptr
}

func expect[T any](name string) check {
	return check{info: rtti.Of[T](), name: name, size: reflect.TypeFor[T]().Size()}
}

func run(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("rttidemo", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		configPath = fs.String("config", "", "Path to an HCL registry config file")
		logLevel   = fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
		tree       = fs.Bool("tree", true, "Print the type tree")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	rtti.SetLogger(logger)
	defer rtti.SetLogger(nil)

	cfg := config.NewConfig(
		config.WithQualify(apis.QualifyPath),
		config.WithTrimPrefixes("main", demoPath),
	)
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	// Names depend on the configuration, so apply it before linking.
	rtti.SetConfig(cfg)
	rtti.Initialize()

	r := lipgloss.NewRenderer(out)
	var (
		okStyle    = r.NewStyle().Foreground(lipgloss.Color("#90EE90"))
		failStyle  = r.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
		nameStyle  = r.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
		scopeStyle = r.NewStyle().Foreground(lipgloss.Color("#666666"))
	)
	// Scope prefixes are dimmed, the short name is highlighted.
	styleName := func(name string) string {
		short := names.Short(name)
		return scopeStyle.Render(strings.TrimSuffix(name, short)) + nameStyle.Render(short)
	}

	checks := []check{
		expect[MyClass]("MyClass"),
		expect[mynamespace.MyClass]("mynamespace.MyClass"),
		expect[mynamespace2.MyClass]("mynamespace.mynamespace2.MyClass"),
	}
	failed := 0
	for _, c := range checks {
		if c.info.Name() != c.name || c.info.Size() != c.size {
			failed++
			fmt.Fprintf(out, "%s got %q size 0x%x, want %q size 0x%x\n",
				failStyle.Render("failure:"), c.info.Name(), c.info.Size(), c.name, c.size)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", okStyle.Render("success:"),
			debug.Hierarchy(c.info, debug.WithNameStyle(styleName)))
	}

	if *tree {
		fmt.Fprintln(out)
		if err := debug.WriteTree(out, rtti.Registry(), debug.WithNameStyle(styleName)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(checks))
	}
	return nil
}

// newLogger builds a console logger writing to stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	return cfg.Build()
}
