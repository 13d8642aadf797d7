package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
)

// Reads a cached canonical SRS from stdin and prints the sha256 of the file
// and of its Lagrange form at every power of two it covers.
func main() {
	file, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalln(err)
	}
	var srs kzg.SRS
	if _, err := srs.ReadFrom(bytes.NewReader(file)); err != nil {
		log.Fatalln("invalid srs file;", "size:", len(file), err)
	}
	sum := sha256.Sum256(file)
	fmt.Println("sha256", "(", "SRS", ")", "=", hex.EncodeToString(sum[:]))
	ck := srs.Pk.G1
	for i := 0; (1 << i) <= len(ck); i++ {
		lk, err := kzg.ToLagrangeG1(ck[:1<<i])
		if err != nil {
			log.Fatalln(err)
		}
		hasher := sha256.New()
		for _, xy := range lk {
			b := xy.RawBytes()
			if _, err := hasher.Write(b[:]); err != nil {
				log.Fatalln(err)
			}
		}
		fmt.Println("sha256", "(", "SRS.LK", "[", i, "]", ")", "=", hex.EncodeToString(hasher.Sum(nil)))
	}
}
