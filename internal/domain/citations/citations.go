// Package citations mines structured source and author references out of
// free-form assistant output. The extraction is purely lexical: URLs,
// arXiv/DOI identifiers rewritten to their canonical resolver URLs, and
// author names matched by a small set of heuristics.
package citations

import (
	"regexp"
	"strings"
)

const (
	maxSources = 20
	maxAuthors = 10

	// entries at or below this length are treated as pattern noise.
	minEntryLen = 3
)

// Structured is the deduplicated summary of sources and authors found in a
// piece of text. Insertion order is preserved after deduplication; no other
// ordering is guaranteed.
type Structured struct {
	Sources []string `json:"sources,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

var (
	urlRe   = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)
	arxivRe = regexp.MustCompile(`(?i)\barxiv[:\s]\s*(\d{4}\.\d{4,5})(v\d+)?`)
	doiRe   = regexp.MustCompile(`\b10\.\d{4,9}/[-._;()/:a-zA-Z0-9]+`)

	// author heuristics, pooled:
	//   "by Jane Doe" / "by Jane Doe and John Smith"
	//   "Authors: Jane Doe, John Smith" (also Author:/Written by:/Published by:)
	//   "Jane Doe et al."
	byAuthorRe    = regexp.MustCompile(`\bby\s+([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)+(?:(?:,\s*|\s+and\s+|\s*&\s*)[A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)+)*)`)
	labelAuthorRe = regexp.MustCompile(`(?i)\b(?:authors?|written by|published by):\s*([^\n.;]+)`)
	etAlRe        = regexp.MustCompile(`([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)*)\s+et\s+al\.?`)

	nameLikeRe = regexp.MustCompile(`^[A-Z][A-Za-z'.-]*(\s+[A-Z][A-Za-z'.-]*)*$`)
)

// Extract scans text for citations. Returns nil when neither sources nor
// authors are found; citation-free text is the expected common case, not an
// error.
func Extract(text string) *Structured {
	sources := extractSources(text)
	authors := extractAuthors(text)
	if len(sources) == 0 && len(authors) == 0 {
		return nil
	}
	return &Structured{Sources: sources, Authors: authors}
}

func extractSources(text string) []string {
	set := newOrderedSet(maxSources)

	for _, raw := range urlRe.FindAllString(text, -1) {
		set.add(strings.TrimRight(raw, ".,;"))
	}
	for _, m := range arxivRe.FindAllStringSubmatch(text, -1) {
		set.add("https://arxiv.org/abs/" + m[1] + m[2])
	}
	for _, doi := range doiRe.FindAllString(text, -1) {
		set.add("https://doi.org/" + strings.TrimRight(doi, ".,;"))
	}

	return set.values
}

func extractAuthors(text string) []string {
	set := newOrderedSet(maxAuthors)

	for _, m := range byAuthorRe.FindAllStringSubmatch(text, -1) {
		for _, name := range splitNameList(m[1]) {
			set.add(name)
		}
	}
	for _, m := range labelAuthorRe.FindAllStringSubmatch(text, -1) {
		for _, name := range splitNameList(m[1]) {
			if nameLikeRe.MatchString(name) {
				set.add(name)
			}
		}
	}
	for _, m := range etAlRe.FindAllStringSubmatch(text, -1) {
		set.add(m[1])
	}

	return set.values
}

// splitNameList splits "Jane Doe, John Smith and Ada Lovelace" into
// individual trimmed names.
func splitNameList(list string) []string {
	list = strings.ReplaceAll(list, " and ", ",")
	list = strings.ReplaceAll(list, " & ", ",")

	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// orderedSet deduplicates while preserving first-seen order, dropping noise
// entries and respecting the cap.
type orderedSet struct {
	values []string
	seen   map[string]struct{}
	cap    int
}

func newOrderedSet(cap int) *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), cap: cap}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if len(v) < minEntryLen || len(s.values) >= s.cap {
		return
	}
	if _, dup := s.seen[v]; dup {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}
