package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/go-surface/surface/pkg/errors"
)

// Source produces template text for a render pass.
type Source interface {
	Load(ctx context.Context, tc Context) (string, error)
}

// dynamicSource marks sources whose output depends on the render context and
// therefore must never be cached.
type dynamicSource interface {
	Dynamic() bool
}

// prerenderedSource marks sources that emit final markup, skipping the
// data-binding engine.
type prerenderedSource interface {
	Prerendered() bool
}

// Literal is inline template markup.
type Literal string

// Load returns the literal markup.
func (l Literal) Load(ctx context.Context, tc Context) (string, error) {
	return string(l), nil
}

// URL fetches template markup over HTTP. The fetch result is cached by the
// resolver unless caching is disabled.
type URL struct {
	// Href is the template location.
	Href string
	// Client overrides the HTTP client. Defaults to http.DefaultClient.
	Client *http.Client
}

// Load fetches the template body.
func (u URL) Load(ctx context.Context, tc Context) (string, error) {
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Href, nil)
	if err != nil {
		return "", errors.New("template.URL.Load", errors.KindTemplate, tc.ID, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", errors.New("template.URL.Load", errors.KindTemplate, tc.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("template.URL.Load", errors.KindTemplate, tc.ID,
			"fetch %s: unexpected status %s", u.Href, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New("template.URL.Load", errors.KindTemplate, tc.ID, err)
	}
	return string(body), nil
}

// Func is a generator source: it receives the render context and returns
// template text. The output still passes through the binding engine, so a
// generator may itself emit mustache interpolations.
type Func func(ctx context.Context, tc Context) (string, error)

// Load invokes the generator.
func (f Func) Load(ctx context.Context, tc Context) (string, error) {
	return f(ctx, tc)
}

// Dynamic reports that generator output is never cached.
func (Func) Dynamic() bool { return true }

// Templ adapts an a-h/templ component as a template source. Templ components
// emit final, already-escaped markup, so the binding engine is skipped.
func Templ(c templ.Component) Source {
	return templSource{component: c}
}

type templSource struct {
	component templ.Component
}

func (s templSource) Load(ctx context.Context, tc Context) (string, error) {
	var sb strings.Builder
	if err := s.component.Render(ctx, &sb); err != nil {
		return "", errors.New("template.Templ.Load", errors.KindTemplate, tc.ID, err)
	}
	return sb.String(), nil
}

func (templSource) Dynamic() bool     { return true }
func (templSource) Prerendered() bool { return true }

// Detect maps a loosely-typed template value to a Source. Strings containing
// markup or interpolation characters are literals, other strings are URLs.
func Detect(v any) (Source, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Source:
		return t, nil
	case string:
		if strings.ContainsAny(t, "<{") {
			return Literal(t), nil
		}
		return URL{Href: t}, nil
	case func(ctx context.Context, tc Context) (string, error):
		return Func(t), nil
	case templ.Component:
		return Templ(t), nil
	default:
		return nil, fmt.Errorf("template: unsupported template value %T", v)
	}
}
