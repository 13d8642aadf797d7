package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var printBindings bool

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run the script and check every constraint without proving",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		circuit, bindings, err := session()
		if err != nil {
			log.Fatalln(err)
		}
		if err := circuit.Mock(); err != nil {
			log.Fatalln(err)
		}
		fmt.Println("mock passed")
		if printBindings {
			values := map[string][]string{}
			for name, hs := range bindings {
				for _, h := range hs {
					v, err := circuit.Builder().Main(0).Get(h)
					if err != nil {
						log.Fatalln(err)
					}
					values[name] = append(values[name], v.String())
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(values); err != nil {
				log.Fatalln(err)
			}
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the cell, lookup and constraint counts of the script",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		circuit, _, err := session()
		if err != nil {
			log.Fatalln(err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(circuit.Stats()); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	mockCmd.Flags().BoolVar(&printBindings, "print", false, "Print the values bound by the script.")
	rootCmd.AddCommand(mockCmd, statsCmd)
}
