// Package config reads the options of an analysis run from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BarrensZeppelin/pta/cs"
	"github.com/BarrensZeppelin/pta/heap"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSensitivity = errors.New("unknown context sensitivity")
	ErrUnknownHeapModel   = errors.New("unknown heap model")
)

// Options of an analysis run. Zero values select the defaults.
//
// Sensitivity is one of "ci", "k-call", "k-obj" or "k-type" where k is a
// positive integer, e.g. "2-obj". HeapModel is "site" (one object per
// allocation site) or "type" (one object per type).
type Options struct {
	Sensitivity string `yaml:"sensitivity"`
	HeapModel   string `yaml:"heap-model"`
	// Heap context depth. Defaults to k-1.
	HeapDepth *int `yaml:"heap-depth"`
	// Entry method as "Class.name(params)". Defaults to the program's main
	// method.
	Entry   string   `yaml:"entry"`
	Entries []string `yaml:"entries"`
	// A logrus level name.
	LogLevel string `yaml:"log-level"`
}

func Default() *Options {
	return &Options{
		Sensitivity: "ci",
		HeapModel:   "site",
		LogLevel:    "info",
	}
}

// Load reads options from a YAML file.
func Load(filename string) (*Options, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(b)
}

// Parse reads options from YAML and validates them. Missing fields keep
// their defaults.
func Parse(b []byte) (*Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(b, opts); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks that every option has a known value.
func (o *Options) Validate() error {
	if _, err := o.Selector(); err != nil {
		return err
	}
	if _, err := o.Heap(); err != nil {
		return err
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	return nil
}

// Selector builds the context selector described by the options.
func (o *Options) Selector() (cs.Selector, error) {
	s := strings.ToLower(strings.TrimSpace(o.Sensitivity))
	if s == "" || s == "ci" || s == "insensitive" {
		return cs.Insensitive(), nil
	}

	n, kind, ok := strings.Cut(s, "-")
	k, err := strconv.Atoi(n)
	if !ok || err != nil || k < 1 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSensitivity, o.Sensitivity)
	}

	hk := k - 1
	if o.HeapDepth != nil {
		hk = *o.HeapDepth
		if hk < 0 {
			return nil, fmt.Errorf("%w: negative heap depth %d", ErrUnknownSensitivity, hk)
		}
	}

	switch kind {
	case "call", "cfa":
		return cs.KCallSite(k, hk), nil
	case "obj":
		return cs.KObject(k, hk), nil
	case "type":
		return cs.KType(k, hk), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSensitivity, o.Sensitivity)
}

// Heap returns a fresh heap model. Models hold per-run state, so every
// analysis needs its own.
func (o *Options) Heap() (heap.Model, error) {
	switch strings.ToLower(o.HeapModel) {
	case "", "site", "allocation-site":
		return heap.AllocationSite(), nil
	case "type":
		return heap.ByType(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHeapModel, o.HeapModel)
}

func (o *Options) Level() (logrus.Level, error) {
	if o.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(o.LogLevel)
}
