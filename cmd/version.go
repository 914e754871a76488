package cmd

import (
	"runtime"
	"slices"
	"strings"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of timeline.",
	Long: `Display version information including build details.

Shows:
- Release version
- Git commit hash
- Build timestamp
- Go runtime version
- Readable source formats`,
	Run: func(cmd *cobra.Command, _ []string) {
		formats := make([]string, 0, len(contract.SupportedSourceExtensions))
		for ext := range contract.SupportedSourceExtensions {
			formats = append(formats, strings.TrimPrefix(ext, "."))
		}
		slices.Sort(formats)

		cmd.Printf("timeline CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Sources: %s\n", strings.Join(formats, ", "))
	},
}
