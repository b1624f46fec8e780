package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/armanghobadi/ulora"
)

var timeout = flag.Duration("t", 20*time.Second, "listen timeout")

func main() {
	flag.Parse()
	r := ulora.Open()
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	fmt.Printf("listening for %v\n", *timeout)
	payload := r.Listen(*timeout)
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	if payload == nil {
		fmt.Println("no payload received within the timeout period")
		return
	}
	fmt.Printf("received payload: %q\n", payload)
	fmt.Printf("RSSI %d dBm, SNR %.2f dB\n", r.PacketRSSI(true), r.PacketSNR())
}
