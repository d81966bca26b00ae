package main

import (
	"fmt"
	"io"

	"github.com/aretw0/elo/pkg/enrich"
)

// printResult writes a workflow outcome in a short human form.
func printResult(w io.Writer, res *enrich.Result) {
	if res == nil {
		return
	}
	switch {
	case res.Relocated:
		fmt.Fprintf(w, "%s (moved)\n", res.Path)
	case res.Persisted:
		fmt.Fprintf(w, "%s (updated)\n", res.Path)
	default:
		fmt.Fprintf(w, "%s (unchanged)\n", res.Path)
	}
	if res.Template != "" {
		fmt.Fprintf(w, "  template: %s\n", res.Template)
	}
	for _, p := range res.Created {
		fmt.Fprintf(w, "  created: %s\n", p)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  warning: %v\n", warn)
	}
}
