package server

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Pipeline is one complete request processing path. Its middleware only
// runs for paths claimed by the matchers it is registered under, routes
// are registered once with absolute paths.
type Pipeline struct {
	Name       string
	Middleware []fiber.Handler
	Register   func(app fiber.Router)
}

// Matcher decides whether a request path belongs to a pipeline.
type Matcher interface {
	Matches(path string) bool
	Overlaps(other Matcher) bool
	String() string
}

// Prefix matches a path segment prefix. Prefix("/api") claims /api and
// everything below it but not /apidocs.
type Prefix string

func (p Prefix) Matches(path string) bool {
	base := string(p)
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+"/")
}

func (p Prefix) Overlaps(other Matcher) bool {
	switch o := other.(type) {
	case Prefix:
		return p.Matches(string(o)) || o.Matches(string(p))
	case Exact:
		return p.Matches(string(o))
	case CatchAll:
		return true
	}
	return false
}

func (p Prefix) String() string {
	return string(p) + "/**"
}

// Exact matches a single path.
type Exact string

func (e Exact) Matches(path string) bool {
	return path == string(e)
}

func (e Exact) Overlaps(other Matcher) bool {
	switch o := other.(type) {
	case Exact:
		return e == o
	case Prefix:
		return o.Matches(string(e))
	case CatchAll:
		return true
	}
	return false
}

func (e Exact) String() string {
	return string(e)
}

// CatchAll matches every path. Only valid as the final chain entry.
type CatchAll struct{}

func (CatchAll) Matches(string) bool   { return true }
func (CatchAll) Overlaps(Matcher) bool { return true }
func (CatchAll) String() string        { return "/**" }

type chainEntry struct {
	matcher  Matcher
	pipeline *Pipeline
}

// Chain is the ordered matcher to pipeline table. The first entry whose
// matcher claims the request path owns the request, so entries have to
// be mutually exclusive, which Validate asserts before the server
// starts taking traffic.
type Chain struct {
	entries []chainEntry
}

func NewChain() *Chain {
	return &Chain{}
}

// Handle appends a matcher and its pipeline. The same pipeline may
// appear under several matchers.
func (c *Chain) Handle(matcher Matcher, pipeline *Pipeline) *Chain {
	c.entries = append(c.entries, chainEntry{matcher: matcher, pipeline: pipeline})
	return c
}

// Select returns the pipeline owning the path, first match wins.
func (c *Chain) Select(path string) (*Pipeline, bool) {
	for _, e := range c.entries {
		if e.matcher.Matches(path) {
			return e.pipeline, true
		}
	}
	return nil, false
}

// Validate asserts that every pair of declared matchers is disjoint. A
// CatchAll entry is exempt but must be the last entry.
func (c *Chain) Validate() error {
	for i, e := range c.entries {
		if _, ok := e.matcher.(CatchAll); ok && i != len(c.entries)-1 {
			return fmt.Errorf("chain: catch-all matcher must be the final entry, found at position %d", i)
		}
	}

	for i := 0; i < len(c.entries); i++ {
		if _, ok := c.entries[i].matcher.(CatchAll); ok {
			continue
		}
		for j := i + 1; j < len(c.entries); j++ {
			if _, ok := c.entries[j].matcher.(CatchAll); ok {
				continue
			}
			if c.entries[i].matcher.Overlaps(c.entries[j].matcher) {
				return fmt.Errorf(
					"chain: matchers %s and %s overlap, pipelines %s and %s would race",
					c.entries[i].matcher, c.entries[j].matcher,
					c.entries[i].pipeline.Name, c.entries[j].pipeline.Name,
				)
			}
		}
	}

	return nil
}

// Apply validates the chain and wires it onto the app. Each distinct
// pipeline has its middleware registered once, scoped to the requests
// the chain selects it for, then registers its routes once.
func (c *Chain) Apply(app *fiber.App) error {
	if err := c.Validate(); err != nil {
		return err
	}

	seen := map[*Pipeline]bool{}
	for _, e := range c.entries {
		if seen[e.pipeline] {
			continue
		}
		seen[e.pipeline] = true

		for _, mw := range e.pipeline.Middleware {
			app.Use(c.scoped(e.pipeline, mw))
		}
		if e.pipeline.Register != nil {
			e.pipeline.Register(app)
		}
	}

	return nil
}

// scoped runs the middleware only on requests the chain routes to the
// given pipeline. A request a later entry would also match still
// belongs to the first matching entry alone.
func (c *Chain) scoped(p *Pipeline, mw fiber.Handler) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		selected, ok := c.Select(ctx.Path())
		if !ok || selected != p {
			return ctx.Next()
		}
		return mw(ctx)
	}
}
