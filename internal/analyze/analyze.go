package analyze

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/so2liu/imgsize/internal/format"
	"github.com/so2liu/imgsize/internal/runtime"
)

// Severity classifies a recommendation.
type Severity string

const (
	SeverityOK         Severity = "ok"
	SeverityInfo       Severity = "info"
	SeveritySuggestion Severity = "suggestion"
	SeverityError      Severity = "error"
)

// Size thresholds for the heuristics.
const (
	largeImageBytes = 500 * 1024 * 1024
	largeLayerBytes = 200 * 1024 * 1024
	maxLayerCount   = 20
)

// Recommendation is one size-related finding for an image.
type Recommendation struct {
	Subject  string
	Severity Severity
	Message  string
}

// Analyzer scans images for size optimization opportunities.
type Analyzer struct {
	rt runtime.Runtime
}

// NewAnalyzer creates an Analyzer backed by the given runtime.
func NewAnalyzer(rt runtime.Runtime) *Analyzer {
	return &Analyzer{rt: rt}
}

// AnalyzeAll analyzes every image known to the runtime. Failures for a
// single image degrade to an error-severity recommendation so the sweep
// continues.
func (a *Analyzer) AnalyzeAll(ctx context.Context) ([]Recommendation, error) {
	summaries, err := a.rt.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	var recs []Recommendation
	for _, summary := range summaries {
		subject := fmt.Sprintf("image %s:%s (%s)", orNone(summary.Repository), orNone(summary.Tag), summary.ID)
		recs = append(recs, a.analyze(ctx, summary.Reference(), subject)...)
	}
	return recs, nil
}

// AnalyzeImage analyzes one image by reference.
func (a *Analyzer) AnalyzeImage(ctx context.Context, ref string) []Recommendation {
	return a.analyze(ctx, ref, "image "+ref)
}

func (a *Analyzer) analyze(ctx context.Context, ref, subject string) []Recommendation {
	details, err := a.rt.InspectImage(ctx, ref)
	if err != nil {
		return []Recommendation{{Subject: subject, Severity: SeverityError, Message: err.Error()}}
	}
	history, err := a.rt.ImageHistory(ctx, ref)
	if err != nil {
		return []Recommendation{{Subject: subject, Severity: SeverityError, Message: err.Error()}}
	}
	return Evaluate(subject, details, history)
}

// Evaluate applies the size heuristics to already retrieved image data.
func Evaluate(subject string, details *runtime.ImageDetails, history []runtime.HistoryEntry) []Recommendation {
	var recs []Recommendation

	if details.Size > largeImageBytes {
		recs = append(recs, Recommendation{
			Subject:  subject,
			Severity: SeverityInfo,
			Message: fmt.Sprintf(
				"Image size exceeds 500MB (%s). Consider multi-stage builds, removing build tools, and pruning package caches.",
				format.HumanBytes(float64(details.Size)),
			),
		})
	}

	if layers := len(details.RootFS.Layers); layers > maxLayerCount {
		recs = append(recs, Recommendation{
			Subject:  subject,
			Severity: SeverityInfo,
			Message: fmt.Sprintf(
				"Image has %d layers; consolidating RUN instructions or leveraging multi-stage builds can reduce layer count and size.",
				layers,
			),
		})
	}

	if !pipCacheDisabled(details.Config.Env) {
		recs = append(recs, Recommendation{
			Subject:  subject,
			Severity: SeverityInfo,
			Message:  "Enable PIP_NO_CACHE_DIR=1 to avoid persisting pip caches inside the image.",
		})
	}

	for _, entry := range history {
		if int64(entry.Size) <= largeLayerBytes {
			continue
		}
		createdBy := format.CollapseSpace(entry.CreatedBy)
		if createdBy == "" {
			createdBy = "<unknown>"
		}
		recs = append(recs, Recommendation{
			Subject:  subject,
			Severity: SeverityInfo,
			Message: fmt.Sprintf(
				"Layer created by '%s' is large (%s). Break the command into smaller steps or clean temporary artifacts to shrink the layer.",
				createdBy,
				format.HumanBytes(float64(entry.Size)),
			),
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Subject:  subject,
			Severity: SeverityOK,
			Message:  "No issues detected for this image.",
		})
	}
	return recs
}

// Render writes recommendations one per line.
func Render(w io.Writer, recs []Recommendation) {
	for _, rec := range recs {
		fmt.Fprintf(w, "[%-9s] %s: %s\n", strings.ToUpper(string(rec.Severity)), rec.Subject, rec.Message)
	}
}

func pipCacheDisabled(env []string) bool {
	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key != "PIP_NO_CACHE_DIR" {
			continue
		}
		switch value {
		case "1", "true", "True":
			return true
		}
	}
	return false
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
