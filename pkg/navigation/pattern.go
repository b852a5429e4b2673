package navigation

import (
	"fmt"
	"net/url"
	"strings"
)

// TrailingSlashBehavior controls how trailing slashes are handled in matching.
type TrailingSlashBehavior int

const (
	// TrailingSlashStrip treats "/path/" the same as "/path".
	TrailingSlashStrip TrailingSlashBehavior = iota
	// TrailingSlashStrict requires an exact match.
	TrailingSlashStrict
)

// CaseSensitivity controls case handling in path matching.
type CaseSensitivity int

const (
	// CaseSensitive requires exact case match.
	CaseSensitive CaseSensitivity = iota
	// CaseInsensitive matches static segments ignoring case.
	CaseInsensitive
)

// PathPattern matches URL paths against a pattern with parameters.
//
// Patterns support static segments ("/products"), parameters
// ("/products/:id") and a trailing wildcard ("/files/*rest") which captures
// the remaining path.
type PathPattern struct {
	raw      string
	segments []segment
	trailing TrailingSlashBehavior
	casing   CaseSensitivity
}

type segment struct {
	literal  string
	param    string
	wildcard bool
}

// PatternOption configures pattern matching behavior.
type PatternOption func(*PathPattern)

// WithTrailingSlash sets the trailing slash behavior.
func WithTrailingSlash(b TrailingSlashBehavior) PatternOption {
	return func(p *PathPattern) { p.trailing = b }
}

// WithCaseSensitivity sets static-segment case handling.
func WithCaseSensitivity(c CaseSensitivity) PatternOption {
	return func(p *PathPattern) { p.casing = c }
}

// NewPathPattern compiles a path pattern.
func NewPathPattern(pattern string, opts ...PatternOption) *PathPattern {
	p := &PathPattern{raw: pattern}
	for _, opt := range opts {
		opt(p)
	}
	for _, part := range splitPath(pattern) {
		switch {
		case strings.HasPrefix(part, ":"):
			p.segments = append(p.segments, segment{param: part[1:]})
		case strings.HasPrefix(part, "*"):
			p.segments = append(p.segments, segment{param: part[1:], wildcard: true})
		default:
			p.segments = append(p.segments, segment{literal: part})
		}
	}
	return p
}

// String returns the original pattern.
func (p *PathPattern) String() string { return p.raw }

// Match tests path against the pattern and extracts parameters.
// Parameter values are percent-decoded.
func (p *PathPattern) Match(path string) (map[string]string, bool) {
	if p.trailing == TrailingSlashStrip {
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			path = "/"
		}
	}
	parts := splitPath(path)

	params := make(map[string]string)
	for i, seg := range p.segments {
		if seg.wildcard {
			rest := strings.Join(parts[i:], "/")
			params[seg.param] = decodeParam(rest)
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = decodeParam(parts[i])
			continue
		}
		got := parts[i]
		want := seg.literal
		if p.casing == CaseInsensitive {
			got = strings.ToLower(got)
			want = strings.ToLower(want)
		}
		if got != want {
			return nil, false
		}
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// Expand builds a concrete path from the pattern, substituting params.
// Params that do not appear in the pattern are appended as query values.
func (p *PathPattern) Expand(params map[string]any) (string, error) {
	used := make(map[string]bool, len(params))
	var sb strings.Builder
	for _, seg := range p.segments {
		sb.WriteByte('/')
		if seg.param == "" {
			sb.WriteString(seg.literal)
			continue
		}
		v, ok := params[seg.param]
		if !ok {
			return "", fmt.Errorf("navigation: pattern %q: missing parameter %q", p.raw, seg.param)
		}
		used[seg.param] = true
		sb.WriteString(url.PathEscape(fmt.Sprint(v)))
	}
	path := sb.String()
	if path == "" {
		path = "/"
	}

	query := url.Values{}
	for k, v := range params {
		if !used[k] {
			query.Set(k, fmt.Sprint(v))
		}
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path, nil
}

// ParsePath splits a path into its path-only portion and parsed query values.
// Fragments are dropped.
func ParsePath(path string) (string, map[string][]string) {
	if idx := strings.IndexByte(path, '#'); idx >= 0 {
		path = path[:idx]
	}
	pathOnly := path
	query := map[string][]string{}
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		pathOnly = path[:idx]
		if values, err := url.ParseQuery(path[idx+1:]); err == nil {
			query = values
		}
	}
	return pathOnly, query
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func decodeParam(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
