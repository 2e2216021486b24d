package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at link time with -ldflags "-X testtree.dev/pkg/testtree/cmd.version=v1.2.3".
var version string

type versionInfo struct {
	Version   string
	GoVersion string
	Revision  string
	Modified  bool
}

// readVersion prefers the linked version over the module version of the binary.
func readVersion(linked string, info *debug.BuildInfo) versionInfo {
	v := versionInfo{Version: linked}

	if info != nil {
		v.GoVersion = info.GoVersion

		if v.Version == "" && info.Main.Version != "(devel)" {
			v.Version = info.Main.Version
		}

		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				v.Revision = setting.Value
			case "vcs.modified":
				v.Modified = setting.Value == "true"
			}
		}
	}

	if v.Version == "" {
		v.Version = "devel"
	}

	return v
}

func (v versionInfo) lines() []string {
	lines := []string{"testtree " + v.Version}

	if v.Revision != "" {
		revision := v.Revision
		if len(revision) > 12 {
			revision = revision[:12]
		}

		if v.Modified {
			revision += " (modified)"
		}

		lines = append(lines, "revision   "+revision)
	}

	if v.GoVersion != "" {
		lines = append(lines, "go version "+v.GoVersion)
	}

	return lines
}

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the testtree version",
		Long:  "Print the testtree release, the source revision and the Go toolchain the binary was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			v := readVersion(version, info)

			if short {
				cmd.Println(v.Version)
				return
			}

			for _, line := range v.lines() {
				cmd.Println(line)
			}
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")

	return cmd
}

var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
