/*
 * Diff Report Rendering
 *
 * Renders a schema diff for humans (text, markdown) and machines (yaml).
 * Consumes the diff model read-only; ordering follows the flat change
 * list, which the engine emits in source declaration order.
 */

package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanmorri810/pgschemadiff/go/diff"
)

// Format selects the output rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, markdown or yaml)", s)
	}
}

// Render writes the diff to w in the requested format.
func Render(w io.Writer, d *diff.SchemaDiff, format Format) error {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(w, d)
	case FormatYAML:
		return renderYAML(w, d)
	default:
		return renderText(w, d)
	}
}

func renderText(w io.Writer, d *diff.SchemaDiff) error {
	if !d.HasDifferences() {
		_, err := fmt.Fprintln(w, "No differences found.")
		return err
	}
	for _, c := range d.Changes {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", c.Severity, c.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d added, %d removed, %d changed\n",
		d.TableAddCount(), d.TableRemoveCount(), d.TableModifyCount())
	return err
}

func renderMarkdown(w io.Writer, d *diff.SchemaDiff) error {
	if !d.HasDifferences() {
		_, err := fmt.Fprintln(w, "No differences found.")
		return err
	}
	var sb strings.Builder
	sb.WriteString("# Schema Differences\n\n")
	sb.WriteString("| Severity | Table | Object | Change | Old | New |\n")
	sb.WriteString("|----------|-------|--------|--------|-----|-----|\n")
	for _, c := range d.Changes {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			c.Severity, mdCell(c.Table), mdCell(c.Object), c.Type,
			mdCell(c.Old), mdCell(c.New))
	}
	fmt.Fprintf(&sb, "\nTables: %d added, %d removed, %d changed\n",
		d.TableAddCount(), d.TableRemoveCount(), d.TableModifyCount())
	_, err := io.WriteString(w, sb.String())
	return err
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// yamlReport is the serialized shape of a diff; the model types stay
// internal so the output remains stable if they grow fields.
type yamlReport struct {
	TablesAdded   []string     `yaml:"tables_added,omitempty"`
	TablesRemoved []string     `yaml:"tables_removed,omitempty"`
	Changes       []yamlChange `yaml:"changes,omitempty"`
}

type yamlChange struct {
	Severity string `yaml:"severity"`
	Type     string `yaml:"type"`
	Table    string `yaml:"table"`
	Object   string `yaml:"object,omitempty"`
	Old      string `yaml:"old,omitempty"`
	New      string `yaml:"new,omitempty"`
	Message  string `yaml:"message"`
}

func renderYAML(w io.Writer, d *diff.SchemaDiff) error {
	r := yamlReport{}
	for _, t := range d.TablesAdded {
		r.TablesAdded = append(r.TablesAdded, t.Name)
	}
	for _, t := range d.TablesRemoved {
		r.TablesRemoved = append(r.TablesRemoved, t.Name)
	}
	for _, c := range d.Changes {
		r.Changes = append(r.Changes, yamlChange{
			Severity: c.Severity.String(),
			Type:     c.Type.String(),
			Table:    c.Table,
			Object:   c.Object,
			Old:      c.Old,
			New:      c.New,
			Message:  c.Message,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
