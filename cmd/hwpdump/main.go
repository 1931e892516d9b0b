// Command hwpdump opens an HWP 5.x file and prints its extracted text,
// tables, and available metadata. It is a thin demonstrator of the hwp
// package, not a supported tool in its own right.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gohwp/hwp5/hwp"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file.hwp>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := hwp.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open %s: %v", flag.Arg(0), err)
	}
	defer doc.Close()

	fmt.Println("=== Metadata ===")
	fmt.Printf("Version: %s\n", doc.Info.Version)
	fmt.Printf("Compressed: %t\n", doc.Info.Compressed)

	if info, err := doc.SummaryInfo(); err != nil {
		log.Printf("summary info: %v", err)
	} else if info != nil {
		fmt.Printf("Title: %s\n", info.Title)
		fmt.Printf("Subject: %s\n", info.Subject)
		fmt.Printf("Author: %s\n", info.Author)
		fmt.Printf("Last saved by: %s\n", info.LastSavedBy)
	}

	sections, err := doc.Sections()
	if err != nil {
		log.Fatalf("reading sections: %v", err)
	}

	for _, s := range sections {
		fmt.Printf("\n=== Section %d ===\n", s.Index)
		for _, p := range s.Paragraphs {
			fmt.Println(p)
		}
		for i, tbl := range s.Tables {
			fmt.Printf("\n-- table %d --\n", i)
			fmt.Print(tbl.Render())
		}
	}
}
