package runtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRuntime(output string, err error) *CLIRuntime {
	return &CLIRuntime{
		binary: "docker",
		run: func(ctx context.Context, binary string, args ...string) ([]byte, error) {
			if err != nil {
				return nil, err
			}
			return []byte(output), nil
		},
	}
}

const inspectFixture = `[
  {
    "Id": "sha256:3f57d9401f8d42f986df300f0c69192fc41da28ccc8d797829467780db3dd741",
    "RepoTags": ["alpine:3.20"],
    "RepoDigests": ["alpine@sha256:beefdead"],
    "Created": "2024-06-01T12:00:00Z",
    "Architecture": "amd64",
    "Os": "linux",
    "Size": 7340032,
    "VirtualSize": 7340032,
    "Config": {
      "User": "nobody",
      "WorkingDir": "/srv",
      "Env": ["PATH=/usr/bin"],
      "Cmd": ["/bin/sh"],
      "Labels": {"maintainer": "someone"}
    },
    "RootFS": {
      "Type": "layers",
      "Layers": ["sha256:aaaa", "sha256:bbbb"]
    }
  }
]`

func TestInspectImage(t *testing.T) {
	rt := fakeRuntime(inspectFixture, nil)

	details, err := rt.InspectImage(context.Background(), "alpine:3.20")
	require.NoError(t, err)

	assert.Equal(t, "sha256:3f57d9401f8d42f986df300f0c69192fc41da28ccc8d797829467780db3dd741", details.ID)
	assert.Equal(t, []string{"alpine:3.20"}, details.RepoTags)
	assert.Equal(t, int64(7340032), details.Size)
	assert.Equal(t, "nobody", details.Config.User)
	assert.Equal(t, "/srv", details.Config.WorkingDir)
	assert.Equal(t, []string{"sha256:aaaa", "sha256:bbbb"}, details.RootFS.Layers)
}

func TestInspectImageNotFound(t *testing.T) {
	rt := fakeRuntime("[]", nil)

	_, err := rt.InspectImage(context.Background(), "ghost:latest")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.Contains(t, err.Error(), "ghost:latest")
}

func TestInspectImageInvocationFailure(t *testing.T) {
	invErr := &InvocationError{
		Binary: "docker",
		Args:   []string{"inspect", "--type", "image", "broken"},
		Stderr: "Cannot connect to the Docker daemon",
	}
	rt := fakeRuntime("", invErr)

	_, err := rt.InspectImage(context.Background(), "broken")
	require.Error(t, err)

	var got *InvocationError
	require.ErrorAs(t, err, &got)
	assert.Contains(t, got.Error(), "Cannot connect to the Docker daemon")
	assert.Contains(t, got.Error(), "docker inspect --type image broken")
}

func TestInspectImageMalformedOutput(t *testing.T) {
	rt := fakeRuntime("not json at all", nil)

	_, err := rt.InspectImage(context.Background(), "alpine")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse inspect output")
}

func TestImageHistory(t *testing.T) {
	fixture := `{"ID":"sha256:ffff","CreatedBy":"CMD [\"/bin/sh\"]","Size":"0","Comment":"buildkit.dockerfile.v0"}

{"ID":"<missing>","CreatedBy":"ADD rootfs.tar.xz / # buildkit","Size":"7340032"}
`
	rt := fakeRuntime(fixture, nil)

	entries, err := rt.ImageHistory(context.Background(), "alpine:3.20")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first, untouched by the client.
	assert.Equal(t, "sha256:ffff", entries[0].ID)
	assert.Equal(t, ByteCount(0), entries[0].Size)
	assert.Equal(t, "buildkit.dockerfile.v0", entries[0].Comment)
	assert.Equal(t, "<missing>", entries[1].ID)
	assert.Equal(t, ByteCount(7340032), entries[1].Size)
}

func TestImageHistoryEmptyOutput(t *testing.T) {
	rt := fakeRuntime("\n\n", nil)

	entries, err := rt.ImageHistory(context.Background(), "scratch")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageHistoryMalformedLine(t *testing.T) {
	fixture := `{"ID":"sha256:ffff","Size":"1"}
this is not json
`
	rt := fakeRuntime(fixture, nil)

	_, err := rt.ImageHistory(context.Background(), "alpine")
	require.Error(t, err)

	var got *MalformedHistoryError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "this is not json", got.Line)
}

func TestListImages(t *testing.T) {
	fixture := `{"ID":"3f57d9401f8d","Repository":"alpine","Tag":"3.20","Digest":"sha256:beef","Size":"7.34MB"}
garbage line is skipped
{"ID":"deadbeef0000","Repository":"<none>","Tag":"<none>","Digest":"<none>","Size":"12.3MB"}
`
	rt := fakeRuntime(fixture, nil)

	summaries, err := rt.ListImages(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "alpine:3.20", summaries[0].Reference())
	assert.Equal(t, "deadbeef0000", summaries[1].Reference())
}

func TestByteCountCoercion(t *testing.T) {
	cases := []struct {
		name string
		json string
		want ByteCount
	}{
		{"number", `123`, 123},
		{"float number", `123.9`, 123},
		{"numeric string", `"456"`, 456},
		{"float string", `"12.5"`, 12},
		{"padded string", `" 789 "`, 789},
		{"human string", `"7.34MB"`, 0},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"boolean", `true`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got ByteCount
			require.NoError(t, json.Unmarshal([]byte(tc.json), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
