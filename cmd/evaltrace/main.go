package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"chess-variant-engine/engine"
	vm "chess-variant-engine/varmg"
)

// evaltrace prints the static evaluation and the per-term trace table for
// one or more FENs.
//
// Usage:
//
//	evaltrace [-variant name] [-trace] "FEN" ["FEN" ...]
//	echo "FEN" | evaltrace -variant crazyhouse
func main() {
	variantName := flag.String("variant", "standard", "rule set (standard, atomic, crazyhouse, ...)")
	showTrace := flag.Bool("trace", true, "print the per-term trace table")
	flag.Parse()

	variant, ok := vm.VariantFromName(*variantName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown variant %q\n", *variantName)
		os.Exit(2)
	}

	fens := flag.Args()
	if len(fens) == 0 {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				fens = append(fens, line)
			}
		}
	}
	if len(fens) == 0 {
		fens = []string{vm.FENStartPos}
	}

	for _, fen := range fens {
		b, err := vm.ParseFEN(fen, variant)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad fen %q: %v\n", fen, err)
			os.Exit(1)
		}
		fmt.Printf("FEN: %s\n", b.ToFEN())
		fmt.Printf("Variant: %s\n", variant)
		if *showTrace {
			fmt.Print(engine.Trace(b))
		} else {
			fmt.Printf("Evaluation: %d (side to move)\n", engine.Evaluate(b))
		}
		fmt.Println()
	}
}
