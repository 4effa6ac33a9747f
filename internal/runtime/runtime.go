package runtime

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
)

// Runtime represents a container runtime interface
type Runtime interface {
	// Name returns the runtime name (docker, podman, etc.)
	Name() string

	// InspectImage retrieves identity and configuration metadata for one image
	InspectImage(ctx context.Context, ref string) (*ImageDetails, error)

	// ImageHistory retrieves the build history of an image, newest first
	ImageHistory(ctx context.Context, ref string) ([]HistoryEntry, error)

	// ListImages lists the images known to the runtime
	ListImages(ctx context.Context) ([]ImageSummary, error)
}

// ImageDetails is the structured result of an image inspect query.
type ImageDetails struct {
	ID           string    `json:"Id"`
	RepoTags     []string  `json:"RepoTags"`
	RepoDigests  []string  `json:"RepoDigests"`
	Created      string    `json:"Created"`
	Architecture string    `json:"Architecture"`
	Os           string    `json:"Os"`
	Size         int64     `json:"Size"`
	VirtualSize  int64     `json:"VirtualSize"`
	Config       v1.Config `json:"Config"`
	RootFS       RootFS    `json:"RootFS"`
}

// RootFS lists the filesystem layer digests of an image, oldest first. It
// may be shorter than the history when metadata-only instructions produced
// no filesystem delta.
type RootFS struct {
	Type   string   `json:"Type"`
	Layers []string `json:"Layers"`
}

// HistoryEntry is one recorded build instruction.
type HistoryEntry struct {
	ID           string    `json:"ID"`
	CreatedAt    string    `json:"CreatedAt"`
	CreatedSince string    `json:"CreatedSince"`
	CreatedBy    string    `json:"CreatedBy"`
	Size         ByteCount `json:"Size"`
	Comment      string    `json:"Comment"`
}

// ImageSummary is one row of the runtime's image listing.
type ImageSummary struct {
	ID         string `json:"ID"`
	Repository string `json:"Repository"`
	Tag        string `json:"Tag"`
	Digest     string `json:"Digest"`
	Size       string `json:"Size"`
}

// Reference returns a reference usable for follow-up inspect queries,
// falling back to the image ID for untagged images.
func (s ImageSummary) Reference() string {
	if s.Repository == "" || s.Repository == "<none>" {
		return s.ID
	}
	if s.Tag == "" || s.Tag == "<none>" {
		return s.Repository
	}
	return s.Repository + ":" + s.Tag
}

// ByteCount is a size in bytes decoded leniently: JSON numbers and numeric
// strings are accepted, anything else decodes to zero.
type ByteCount int64

func (b *ByteCount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*b = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*b = ByteCount(n)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*b = ByteCount(f)
		return nil
	}
	*b = 0
	return nil
}

// DetectRuntime tries to detect an available container runtime
func DetectRuntime() (Runtime, error) {
	// Try Docker first
	if rt, err := NewDockerRuntime(); err == nil {
		return rt, nil
	}

	// Try Podman, whose CLI surface is docker-compatible
	if rt, err := NewPodmanRuntime(); err == nil {
		return rt, nil
	}

	return nil, ErrNoRuntimeAvailable
}
