package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"log"

	"github.com/spf13/cobra"

	"github.com/eon-protocol/eonlib"
)

var (
	proofFile     string
	instancesFile string
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Prove the script with a proving key from keygen",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var pk eonlib.Pk
		if err := load(pkFile, &pk); err != nil {
			log.Fatalln(err)
		}
		circuit, _, err := session()
		if err != nil {
			log.Fatalln(err)
		}
		proof, instances, err := pk.Prove(circuit)
		if err != nil {
			log.Fatalln(err)
		}
		if err := save(proofFile, proof); err != nil {
			log.Fatalln(err)
		}
		if err := writeInstances(instancesFile, instances); err != nil {
			log.Fatalln(err)
		}
		log.Println("proof written;", "proof:", proofFile, "instances:", instancesFile)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof against its instances",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var vk eonlib.Vk
		if err := load(vkFile, &vk); err != nil {
			log.Fatalln(err)
		}
		var proof eonlib.Proof
		if err := load(proofFile, &proof); err != nil {
			log.Fatalln(err)
		}
		instances, err := readInstances(instancesFile)
		if err != nil {
			log.Fatalln(err)
		}
		if err := vk.Verify(&proof, instances); err != nil {
			log.Fatalln("verification failed:", err)
		}
		fmt.Println("proof verified")
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the digest and circuit fingerprint of a verifying key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var vk eonlib.Vk
		if err := load(vkFile, &vk); err != nil {
			log.Fatalln(err)
		}
		digest := vk.Digest()
		fingerprint := vk.Fingerprint()
		fmt.Println("digest", "=", digest.BigInt(new(big.Int)).String())
		fmt.Println("fingerprint", "=", hex.EncodeToString(fingerprint[:]))
		fmt.Println("instances", "=", vk.NbInstances())
	},
}

func init() {
	rootCmd.AddCommand(proveCmd, verifyCmd, digestCmd)
	proveCmd.Flags().StringVar(&pkFile, "pk", "circuit.pk", "The proving key from keygen.")
	proveCmd.Flags().StringVar(&proofFile, "proof", "circuit.proof", "The proof output file.")
	proveCmd.Flags().StringVar(&instancesFile, "instances", "instances.json", "The instance values output file.")
	verifyCmd.Flags().StringVar(&vkFile, "vk", "circuit.vk", "The verifying key from keygen.")
	verifyCmd.Flags().StringVar(&proofFile, "proof", "circuit.proof", "The proof to verify.")
	verifyCmd.Flags().StringVar(&instancesFile, "instances", "instances.json", "The instance values of the proof.")
	digestCmd.Flags().StringVar(&vkFile, "vk", "circuit.vk", "The verifying key from keygen.")
}
