package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/armanghobadi/ulora"
)

var (
	frequency = flag.Uint("f", 433000000, "frequency to set (Hz)")
	dump      = flag.Bool("d", false, "dump the first 128 registers")
)

func main() {
	flag.Parse()
	r := ulora.Open()
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	fmt.Printf("version: %#02x\n", r.Version())
	fmt.Printf("old frequency: %d\n", r.Frequency())
	r.SetFrequency(uint32(*frequency))
	fmt.Printf("new frequency: %d\n", r.Frequency())
	if *dump {
		r.DumpRegisters(os.Stdout)
	}
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
}
