package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const reviewRulerWidth = 50

// FormatForReview renders an invocation for a human reviewer: the
// request identity plus a bulleted argument summary. Long values are
// cut to 100 characters so an email body cannot flood the prompt.
func FormatForReview(inv *Invocation) string {
	var b strings.Builder
	b.WriteString("Pending Action Review\n")
	b.WriteString(strings.Repeat("=", reviewRulerWidth) + "\n")
	fmt.Fprintf(&b, "ID: %s\n", inv.ID)
	fmt.Fprintf(&b, "Type: %s\n", titleCase(inv.Tool.Category()))
	fmt.Fprintf(&b, "Tool: %s\n\n", inv.Tool)
	b.WriteString("Arguments:\n")
	for _, pair := range argumentSummary(inv.Arguments) {
		fmt.Fprintf(&b, "  • %s: %s\n", pair.key, pair.value)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", reviewRulerWidth))
	return b.String()
}

type argPair struct {
	key   string
	value string
}

// argumentSummary flattens the argument object into sorted key/value
// lines. Arguments that do not decode as an object are shown raw.
func argumentSummary(args json.RawMessage) []argPair {
	var decoded map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &decoded); err != nil {
			return []argPair{{key: "raw", value: truncate(string(args), 100)}}
		}
	}

	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]argPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, argPair{key: k, value: truncate(renderValue(decoded[k]), 100)})
	}
	return pairs
}

func renderValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
