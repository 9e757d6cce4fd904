package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Print the blockgraph version and the Go toolchain and platform it was built for.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "blockgraph %s\n", versionString(version))
			_, _ = fmt.Fprintf(out, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// versionString prefixes release versions with "v"; dev builds stay as is.
func versionString(version string) string {
	switch {
	case version == "":
		return "dev"
	case version[0] >= '0' && version[0] <= '9':
		return "v" + version
	default:
		return version
	}
}
