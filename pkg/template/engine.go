// Package template resolves component template sources to final markup.
//
// A template source is a literal markup string, a remote URL, or a generator
// function. The resolver loads template text (caching it per instance unless
// disabled), then binds the node's data context through a mustache-style
// engine: {{v}} interpolations are HTML-escaped, {{{v}}} and {{&v}} are raw.
package template

import (
	"github.com/cbroglie/mustache"

	"github.com/go-surface/surface/pkg/errors"
)

// Engine binds a data context into template text. It is a collaborator
// contract: the runtime only assumes a pure (template, context, partials) to
// markup function.
type Engine interface {
	Render(template string, context map[string]any, partials map[string]string) (string, error)
}

// MustacheEngine is the default Engine. It preserves the escaping contract
// callers rely on: {{v}} escapes HTML, {{{v}}} and {{&v}} inject raw markup.
type MustacheEngine struct{}

// Render binds context into template text.
func (MustacheEngine) Render(template string, context map[string]any, partials map[string]string) (string, error) {
	var out string
	var err error
	if len(partials) > 0 {
		provider := &mustache.StaticProvider{Partials: partials}
		out, err = mustache.RenderPartials(template, provider, context)
	} else {
		out, err = mustache.Render(template, context)
	}
	if err != nil {
		return "", errors.New("template.Engine.Render", errors.KindTemplate, "", err)
	}
	return out, nil
}
