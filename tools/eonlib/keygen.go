package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/eon-protocol/eonlib"
)

var (
	pkFile string
	vkFile string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Compile the script and write its proving and verifying keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		circuit, _, err := session()
		if err != nil {
			log.Fatalln(err)
		}
		var pk eonlib.Pk
		if err := pk.Compile(circuit); err != nil {
			log.Fatalln(err)
		}
		if err := save(pkFile, &pk); err != nil {
			log.Fatalln(err)
		}
		if err := save(vkFile, pk.Vk()); err != nil {
			log.Fatalln(err)
		}
		log.Println("keys written;", "pk:", pkFile, "vk:", vkFile)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVar(&pkFile, "pk", "circuit.pk", "The proving key output file.")
	keygenCmd.Flags().StringVar(&vkFile, "vk", "circuit.vk", "The verifying key output file.")
}
