package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/so2liu/imgsize/internal/format"
	"github.com/so2liu/imgsize/internal/runtime"
)

const (
	nonePlaceholder = "<none>"

	defaultUser       = "root"
	defaultWorkingDir = "/"

	// maxListedValues caps the environment and label sections.
	maxListedValues = 10
)

// Composer assembles the full image report: identity and configuration
// summary lines followed by the layer history table.
type Composer struct {
	layout TableLayout
}

// NewComposer creates a Composer rendering its table with the given layout.
func NewComposer(layout TableLayout) *Composer {
	return &Composer{layout: layout}
}

// Compose writes the report for one image to the writer.
func (c *Composer) Compose(w io.Writer, ref string, details *runtime.ImageDetails, history []runtime.HistoryEntry) error {
	fmt.Fprintf(w, "Image:         %s\n", ref)
	fmt.Fprintf(w, "ID:            %s\n", details.ID)
	fmt.Fprintf(w, "Created:       %s\n", details.Created)
	fmt.Fprintf(w, "Architecture:  %s\n", details.Architecture)
	fmt.Fprintf(w, "OS:            %s\n", details.Os)
	fmt.Fprintf(w, "Size:          %s\n", format.HumanBytes(float64(details.Size)))
	fmt.Fprintf(w, "Virtual size:  %s\n", format.HumanBytes(float64(details.VirtualSize)))
	fmt.Fprintf(w, "Tags:          %s\n", joinOrNone(details.RepoTags))
	fmt.Fprintf(w, "Digests:       %s\n", joinOrNone(details.RepoDigests))
	fmt.Fprintf(w, "User:          %s\n", orDefault(details.Config.User, defaultUser))
	fmt.Fprintf(w, "Working dir:   %s\n", orDefault(details.Config.WorkingDir, defaultWorkingDir))
	fmt.Fprintf(w, "Entrypoint:    %s\n", joinOrNone(details.Config.Entrypoint))
	fmt.Fprintf(w, "Command:       %s\n", joinOrNone(details.Config.Cmd))

	if env := details.Config.Env; len(env) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Environment:")
		for _, entry := range capList(env) {
			fmt.Fprintf(w, "  %s\n", entry)
		}
	}

	if labels := details.Config.Labels; len(labels) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Labels:")
		keys := make([]string, 0, len(labels))
		for key := range labels {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range capList(keys) {
			fmt.Fprintf(w, "  %s=%s\n", key, labels[key])
		}
		if len(keys) > maxListedValues {
			fmt.Fprintln(w, "  ...")
		}
	}

	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, RenderHistory(history, details.RootFS.Layers, c.layout))
	return err
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return nonePlaceholder
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func capList(values []string) []string {
	if len(values) > maxListedValues {
		return values[:maxListedValues]
	}
	return values
}
