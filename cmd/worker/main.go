package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <submit <phrase>|gate|entries|wall>")
	}

	var err error
	switch os.Args[1] {
	case "submit":
		err = RunSubmit(os.Args[2:], os.Stdout)
	case "gate":
		err = RunGate(os.Stdout)
	case "entries":
		err = RunEntries(os.Stdout)
	case "wall":
		err = RunWall(os.Stdout)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
