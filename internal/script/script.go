// Package script replays YAML scenarios against a reactive object: effects
// print the paths they watch, steps write or delete paths and the effects re-run.
package script

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/reactive"
)

// Script is a scenario: an initial state, effects watching it and steps mutating it.
type Script struct {
	Options map[string]any `yaml:"options"`
	State   map[string]any `yaml:"state"`
	Effects []Effect       `yaml:"effects"`
	Steps   []Step         `yaml:"steps"`
}

// Effect prints "name: path=value ..." each time it runs.
type Effect struct {
	Name  string   `yaml:"name"`
	Watch []string `yaml:"watch"`
}

// Step either sets a dotted path to Value or deletes a dotted path.
type Step struct {
	Set    string `yaml:"set"`
	Value  any    `yaml:"value"`
	Delete string `yaml:"delete"`
}

// Load parses the script file at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Script) validate() error {
	for i, e := range s.Effects {
		if e.Name == "" {
			return fmt.Errorf("effect %d: name is required", i)
		}
		if len(e.Watch) == 0 {
			return fmt.Errorf("effect %q: watch at least one path", e.Name)
		}
	}

	for i, step := range s.Steps {
		if (step.Set == "") == (step.Delete == "") {
			return fmt.Errorf("step %d: exactly one of set or delete is required", i)
		}
	}

	return nil
}

// Run replays the script on a runtime of its own, writing effect output to w.
// opts apply to that runtime only, and its effects are stopped before Run returns.
// A panic escaping an effect is re-raised on the caller.
func (s *Script) Run(w io.Writer, logger *slog.Logger, opts ...reactive.Option) error {
	type result struct {
		err      error
		panicked any
	}

	done := make(chan result, 1)
	go func() {
		defer reactive.ReleaseRuntime()
		defer func() {
			if p := recover(); p != nil {
				done <- result{panicked: p}
			}
		}()

		done <- result{err: s.run(w, logger, opts...)}
	}()

	res := <-done
	if res.panicked != nil {
		panic(res.panicked)
	}

	return res.err
}

func (s *Script) run(w io.Writer, logger *slog.Logger, opts ...reactive.Option) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reactive.Configure(opts...)

	state := reactive.NewReactive(s.State)

	effects := make([]*reactive.Effect, 0, len(s.Effects))
	defer func() {
		for _, e := range effects {
			e.Stop()
		}
	}()

	var writeErr error
	for _, def := range s.Effects {
		effects = append(effects, reactive.NewEffect(func() {
			parts := make([]string, 0, len(def.Watch))
			for _, path := range def.Watch {
				parts = append(parts, fmt.Sprintf("%s=%v", path, format(lookup(state, path))))
			}

			if _, err := fmt.Fprintf(w, "%s: %s\n", def.Name, strings.Join(parts, " ")); err != nil && writeErr == nil {
				writeErr = fmt.Errorf("write effect output: %w", err)
			}
		}))
	}

	for i, step := range s.Steps {
		switch {
		case step.Set != "":
			logger.Info("set", "step", i, "path", step.Set, "value", step.Value)

			parent, key, err := resolve(state, step.Set)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			parent.Set(key, step.Value)

		default:
			logger.Info("delete", "step", i, "path", step.Delete)

			parent, key, err := resolve(state, step.Delete)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			parent.Delete(key)
		}
	}

	return writeErr
}

// lookup reads a dotted path, tracking every segment. Missing segments yield nil.
func lookup(o *reactive.Object, path string) any {
	segments := strings.Split(path, ".")

	for _, seg := range segments[:len(segments)-1] {
		next, ok := o.Get(seg).(*reactive.Object)
		if !ok {
			return nil
		}
		o = next
	}

	return o.Get(segments[len(segments)-1])
}

// resolve walks to the object holding the last segment of path.
func resolve(o *reactive.Object, path string) (*reactive.Object, string, error) {
	segments := strings.Split(path, ".")

	for i, seg := range segments[:len(segments)-1] {
		next, ok := reactive.Untrack(func() any { return o.Get(seg) }).(*reactive.Object)
		if !ok {
			return nil, "", fmt.Errorf("path %q: %q is not an object", path, strings.Join(segments[:i+1], "."))
		}
		o = next
	}

	return o, segments[len(segments)-1], nil
}

func format(v any) any {
	if o, ok := v.(*reactive.Object); ok {
		return o.Record().Map()
	}

	return v
}
