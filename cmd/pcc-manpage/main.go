package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/pcc/cmd/pcc"
	"github.com/arthur-debert/pcc/internal/version"
)

func main() {
	rootCmd := pcc.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PCC",
		Section: "1",
		Source:  "pcc " + version.Version,
		Manual:  "pcc manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
