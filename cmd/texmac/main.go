// A command line m4-style macro processor
package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fractalqb/texmac"
)

var rootCmd = struct {
	cobra.Command
	output  string
	defines []string
	quotes  string
	nesting int
	ext     bool
	quiet   bool
}{
	Command: cobra.Command{
		Use:   "texmac [flags] [file ...]",
		Short: "Expand m4-style macros in text files",
		Long: `texmac reads text, expands m4-style macro calls and writes the
expanded text. All files are processed as one concatenated stream, so
macros defined in one file stay defined in the following ones. Without
files the standard input is expanded.

The engine starts with the quote markers ` + "` and '" + ` and the bootstrap
macros define, divert, undivert, divnum, dnl and changequote.`,
		Args: cobra.ArbitraryArgs,
	},
}

func init() {
	rootCmd.Run = expandFiles
	rootCmd.Flags().StringVarP(&rootCmd.output, "output", "o", "",
		"Write expanded text to file instead of stdout")
	rootCmd.Flags().StringArrayVarP(&rootCmd.defines, "define", "D", nil,
		"Define a macro upfront, as name or name=body")
	rootCmd.Flags().StringVar(&rootCmd.quotes, "quotes", "",
		"Start with the quote markers <left>,<right>")
	rootCmd.Flags().IntVar(&rootCmd.nesting, "nesting-limit", 0,
		"Limit nesting of macro calls, 0 does not limit")
	rootCmd.Flags().BoolVar(&rootCmd.ext, "extensions", false,
		"Fail on input that needs unimplemented extensions")
	rootCmd.Flags().BoolVarP(&rootCmd.quiet, "quiet", "q", false,
		"Suppress warnings")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func expandFiles(cmd *cobra.Command, files []string) {
	out := io.Writer(os.Stdout)
	if rootCmd.output != "" {
		f, err := os.Create(rootCmd.output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	x := texmac.New(out)
	x.NestingLimit = rootCmd.nesting
	x.Extensions = rootCmd.ext
	if !rootCmd.quiet {
		x.OnWarn = func(w texmac.Warning) { log.Printf("warning: %s", w) }
	}
	if rootCmd.quotes != "" {
		l, r, _ := strings.Cut(rootCmd.quotes, ",")
		x.ChangeQuote(l, r)
	}
	for _, d := range rootCmd.defines {
		name, body, _ := strings.Cut(d, "=")
		x.Define(name, body)
	}
	if len(files) == 0 {
		expand(x, "stdin", os.Stdin)
	} else {
		for _, f := range files {
			expandFile(x, f)
		}
	}
	if err := x.Close(); err != nil {
		log.Fatal(err)
	}
}

func expandFile(x *texmac.Expander, name string) {
	rd, err := os.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	defer rd.Close()
	expand(x, name, rd)
}

func expand(x *texmac.Expander, name string, rd io.Reader) {
	if _, err := io.Copy(x, rd); err != nil {
		log.Fatalf("%s: %s", name, err)
	}
	if err := x.Err(); err != nil {
		log.Fatalf("%s: %s", name, err)
	}
}
