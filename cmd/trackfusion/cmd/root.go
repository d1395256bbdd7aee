// cmd/trackfusion/cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var (
	Verbose    bool
	JSONLogs   bool
	ConfigFile string
)

var rootCmd = &cobra.Command{
	Use:   "trackfusion",
	Short: "Multi-sensor air track fusion engine",
	Long: `trackfusion ingests ASTERIX CAT010/021/048 surveillance data, fuses
plots into tracks with gated association and a constant-acceleration Kalman
filter, and republishes the resulting track picture as Cursor on Target and
MISB KLV (ST 0601/0902) messages.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called once by main.main. An error tagged with an
// exit code (exitError) is printed and ends the process with that code; any
// other error is returned.
func Execute() error {
	err := rootCmd.Execute()
	var ee exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ee.code)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&JSONLogs, "json", false, "Log in JSON format")
	rootCmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Path to a configuration file")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
	rootCmd.SetVersionTemplate("trackfusion v{{.Version}}\n")
	rootCmd.Version = "0.1.0"
}
