package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"chess-variant-engine/engine"
	vm "chess-variant-engine/varmg"
)

// epdbench bulk-evaluates every position in an EPD/FEN file and reports
// throughput plus the extreme scores. Lines are split across workers; each
// worker owns its evaluation calls, the caches are shared.
type result struct {
	fen   string
	score engine.Value
}

func main() {
	variantName := flag.String("variant", "standard", "rule set for all positions")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel evaluation workers")
	top := flag.Int("top", 5, "how many extreme positions to print")
	flag.Parse()

	variant, ok := vm.VariantFromName(*variantName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown variant %q\n", *variantName)
		os.Exit(2)
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: epdbench [-variant v] [-workers n] file.epd")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	var fens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// EPD operations after the 4th field are ignored.
		fields := strings.Fields(line)
		keep := 4
		for keep < len(fields) && strings.Trim(fields[keep], "+0123456789") == "" {
			keep++
		}
		if keep < len(fields) {
			line = strings.Join(fields[:keep], " ")
		}
		fens = append(fens, line)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bar := progressbar.Default(int64(len(fens)), "evaluating")
	results := make([]result, len(fens))
	var mu sync.Mutex
	bad := 0

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(*workers)
	for i, fen := range fens {
		i, fen := i, fen
		g.Go(func() error {
			b, err := vm.ParseFEN(fen, variant)
			if err != nil {
				mu.Lock()
				bad++
				mu.Unlock()
				_ = bar.Add(1)
				return nil
			}
			results[i] = result{fen: fen, score: engine.Evaluate(b)}
			_ = bar.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	ok2 := results[:0]
	for _, r := range results {
		if r.fen != "" {
			ok2 = append(ok2, r)
		}
	}
	slices.SortFunc(ok2, func(a, b result) bool { return a.score > b.score })

	fmt.Printf("\n%d positions in %v (%.0f/s), %d unparsable\n",
		len(ok2), elapsed.Round(time.Millisecond),
		float64(len(ok2))/elapsed.Seconds(), bad)

	n := *top
	if n > len(ok2) {
		n = len(ok2)
	}
	fmt.Println("\nBest for side to move:")
	for _, r := range ok2[:n] {
		fmt.Printf("%6d  %s\n", r.score, r.fen)
	}
	fmt.Println("\nWorst for side to move:")
	for _, r := range ok2[len(ok2)-n:] {
		fmt.Printf("%6d  %s\n", r.score, r.fen)
	}
}
