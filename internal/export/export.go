// Package export renders analysis reports as CSV, JSON, Graphviz DOT and
// plain-text path listings.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// WriteRecommendations writes phase-wise do/avoid rows as CSV.
func WriteRecommendations(w io.Writer, recs []models.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"phase", "type", "source", "target"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{r.Phase, string(r.Kind), string(r.Transition.From), string(r.Transition.To)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WritePaths writes one "A -> B -> C" line per path.
func WritePaths(w io.Writer, paths []models.Path) error {
	for _, p := range paths {
		if _, err := fmt.Fprintf(w, "-> %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

// WriteDOT renders a transition set as a Graphviz digraph.
func WriteDOT(w io.Writer, title string, transitions []models.Transition, color string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(title))
	fmt.Fprintf(&b, "  label=%s;\n", strconv.Quote(title))
	if color == "" {
		color = "lightgrey"
	}
	fmt.Fprintf(&b, "  node [shape=ellipse, style=filled, fillcolor=%s];\n", strconv.Quote(color))
	for _, node := range models.NewTransitionSet(transitions...).Nodes() {
		fmt.Fprintf(&b, "  %s;\n", strconv.Quote(string(node)))
	}
	for _, t := range transitions {
		fmt.Fprintf(&b, "  %s -> %s;\n", strconv.Quote(string(t.From)), strconv.Quote(string(t.To)))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
