// Command id3print dumps the decoded frame structure of the given
// files, useful when debugging malformed tags.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/steph0de/id3"
)

func printFile(name string) {
	format, err := id3.DetectFormatPath(name)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s: %s\n", name, format)
	if format == id3.FormatNone {
		return
	}

	tag, err := id3.ReadAnyPath(name)
	tag, err = id3.PartialTagOk(tag, err)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, frame := range tag.Frames() {
		fmt.Printf("%s:\n", frame.ID())
		spew.Dump(frame.Content())
	}
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: id3print file...")
	}
	for _, name := range os.Args[1:] {
		printFile(name)
		fmt.Println()
	}
}
