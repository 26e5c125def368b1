package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped with -ldflags "-X github.com/abhisek/coursekit/cmd.version=v1.2.3".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the coursekit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coursekit %s %s/%s\n", resolvedVersion(), runtime.GOOS, runtime.GOARCH)
	},
}

// resolvedVersion prefers the linker-stamped version, then the module
// version recorded by go install.
func resolvedVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
