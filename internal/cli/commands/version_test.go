package commands

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0", "v0.1.0"},
		{"1.2.3-rc1", "v1.2.3-rc1"},
		{"v2.0.0", "v2.0.0"},
		{"dev", "dev"},
		{"", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, versionString(tt.version))
		})
	}
}

func TestVersionCommand_PrintsBuildInfo(t *testing.T) {
	cmd := NewVersionCommand("0.3.1")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"blockgraph v0.3.1\n"+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+"\n",
		buf.String())
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	cmd := NewVersionCommand("dev")
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
