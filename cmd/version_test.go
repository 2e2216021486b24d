package cmd

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVersion(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Main:      debug.Module{Path: "testtree.dev/pkg/testtree", Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name   string
		linked string
		info   *debug.BuildInfo
		want   []string
	}{
		{"module version", "", info, []string{"testtree v0.4.0", "revision   0123456789ab (modified)", "go version go1.25.0"}},
		{"linked version wins", "v1.0.0", info, []string{"testtree v1.0.0", "revision   0123456789ab (modified)", "go version go1.25.0"}},
		{"devel build", "", &debug.BuildInfo{GoVersion: "go1.25.0", Main: debug.Module{Version: "(devel)"}}, []string{"testtree devel", "go version go1.25.0"}},
		{"no build info", "", nil, []string{"testtree devel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readVersion(tt.linked, tt.info).lines())
		})
	}
}

func TestVersionCmd(t *testing.T) {
	t.Cleanup(func() { version = "" })
	version = "v9.9.9"

	run := func(args ...string) string {
		cmd := newVersionCmd()

		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{}, args...))

		require.NoError(t, cmd.Execute())

		return out.String()
	}

	assert.True(t, strings.HasPrefix(run(), "testtree v9.9.9\n"))
	assert.Equal(t, "v9.9.9\n", run("--short"))
}
