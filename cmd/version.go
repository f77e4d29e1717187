package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
	"github.com/danrwr-web/signposting-sub009/pkg/version"
)

var (
	versionOutputFormat string
	versionShort        bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long: `Display detailed version information including:
- Semantic version of the binary
- Git commit hash
- Build date
- Go version used for compilation
- Target platform
- Decision logic version compiled into the binary

The logic version is the one stamped into every recommendation's metadata,
so deployments can be matched to the sign-off record for their logic.`,
	Example: `  # Display version information
  signpost version

  # Display short version
  signpost version --short

  # Output as JSON
  signpost version --output json`,
	Run: runVersion,
}

// versionOutput extends build information with the compiled-in logic version.
type versionOutput struct {
	version.Info
	LogicVersion string `json:"logic_version"`
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionOutputFormat, "output", "o", "text",
		"Output format (text, json, yaml)")
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false,
		"Display short version information")
}

func runVersion(cmd *cobra.Command, args []string) {
	info := versionOutput{
		Info:         version.Get(),
		LogicVersion: models.LogicVersion,
	}

	if versionShort {
		fmt.Println(info.Short())
		return
	}

	switch versionOutputFormat {
	case "json":
		output, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			GetLogger().Error("Failed to marshal version info to JSON", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(output))

	case "yaml":
		fmt.Printf("version: %s\n", info.Version)
		fmt.Printf("commit_hash: %s\n", info.CommitHash)
		fmt.Printf("build_date: %s\n", info.BuildDate)
		fmt.Printf("go_version: %s\n", info.GoVersion)
		fmt.Printf("platform: %s\n", info.Platform)
		fmt.Printf("logic_version: %s\n", info.LogicVersion)

	case "text":
		fallthrough
	default:
		fmt.Println(info.String())
		fmt.Printf("Decision logic: %s\n", info.LogicVersion)
		if version.IsDevBuild() {
			fmt.Println("Note: this is a development build")
		}
	}
}
