package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	scriptFile string
	configFile string
	inputs     map[string]string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&scriptFile, "script", "", "The JSON op script describing the circuit.")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "The circuit config; overrides the config embedded in the script.")
	rootCmd.PersistentFlags().StringToStringVar(&inputs, "input", nil, "Runtime inputs referenced as @name by the script.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level.")
}

var rootCmd = &cobra.Command{
	Use:   "eonlib",
	Short: "Build, prove and verify eonlib circuits",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
