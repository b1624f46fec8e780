package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/armanghobadi/ulora"
)

var (
	message = flag.String("m", "Hello From Arman Ghobadi", "message to transmit")
	repeat  = flag.Int("n", 1, "number of transmissions")
)

func main() {
	flag.Parse()
	r := ulora.Open()
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	r.SendText(*message, ulora.HeaderCurrent, *repeat)
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	stats := r.Statistics()
	fmt.Printf("sent %d packet(s), %d bytes\n", stats.Packets.Sent, stats.Bytes.Sent)
}
