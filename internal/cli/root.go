// Package cli wires the command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vachanamrut",
	Short: "Vachanamrut Q&A backend",
	Long: `Backend for answering questions about the Vachanamrut scripture.
Answers come from Google Gemini; every answered session and its synthesized
audio is cached on disk so repeated or similar questions are served from
history without another provider call.`,
	Version: version,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vachanamrut.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}
