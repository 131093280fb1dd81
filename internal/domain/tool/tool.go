// Package tool defines the uniform capability contract for the assistant's
// lookup tools and the read-only registry that holds them.
//
// Every tool takes a plain-text argument and returns plain text. By
// convention, lookup services encode their own soft failures into the
// returned string; a non-nil error means the call itself failed (transport,
// decode) and it is the orchestrator's job to fold that into turn context.
// A tool error never aborts a turn.
package tool

import "context"

// Tool is the runtime contract every lookup capability satisfies.
type Tool interface {
	// Name is the stable registry key, e.g. "web_search".
	Name() string

	// Description explains when the tool should be used; surfaced in the
	// tool catalog endpoint.
	Description() string

	// Invoke runs the tool with the extracted argument string.
	Invoke(ctx context.Context, argument string) (string, error)
}

// Registered tool names. The intent router produces these.
const (
	NameWebSearch  = "web_search"
	NameWikipedia  = "wikipedia"
	NameArxiv      = "arxiv"
	NameCalculator = "calculator"
)
