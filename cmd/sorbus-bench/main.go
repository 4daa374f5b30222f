// sorbus-bench is a benchmark and stress test for the sorbus library. It
// builds large synthetic trees and measures interning, descent, and
// destruction performance.
package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/CAD97/sorbus"
)

const (
	tokenCount     = 200_000
	distinctTokens = 500
	fanOut         = 8
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Millisecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Millisecond))
}

func main() {
	fmt.Println("sorbus Benchmark and Stress Test")
	fmt.Println("=================================")
	fmt.Printf("Token count: %d\n", tokenCount)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	b := sorbus.NewBuilder(sorbus.BuilderOptions{})

	var results []BenchResult

	var leaves []sorbus.ElementRef
	results = append(results, benchInternTokens(b, &leaves))
	fmt.Println(results[len(results)-1])

	var root sorbus.ElementRef
	results = append(results, benchBuildTree(b, leaves, &root))
	fmt.Println(results[len(results)-1])

	results = append(results, benchDescend(root))
	fmt.Println(results[len(results)-1])

	results = append(results, benchWalk(root))
	fmt.Println(results[len(results)-1])

	results = append(results, benchDrop(root))
	fmt.Println(results[len(results)-1])

	stats := b.Stats()
	fmt.Println()
	fmt.Printf("Final builder stats: created=%d reused=%d tokens=%d nodes=%d\n",
		stats.Created, stats.Reused, stats.TokensLive, stats.NodesLive)

	fmt.Println()
	fmt.Println("Summary:")
	for _, r := range results {
		fmt.Println(" ", r)
	}
}

func benchInternTokens(b *sorbus.Builder, out *[]sorbus.ElementRef) BenchResult {
	start := time.Now()
	refs := make([]sorbus.ElementRef, 0, tokenCount)
	for i := 0; i < tokenCount; i++ {
		text := fmt.Sprintf("tok-%d", rand.Intn(distinctTokens))
		ref, err := b.Token(sorbus.Kind(i%16), text)
		if err != nil {
			panic(err)
		}
		refs = append(refs, ref)
	}
	*out = refs
	return BenchResult{Name: "Intern tokens", Duration: time.Since(start), Ops: tokenCount}
}

func benchBuildTree(b *sorbus.Builder, leaves []sorbus.ElementRef, out *sorbus.ElementRef) BenchResult {
	start := time.Now()
	level := leaves
	for len(level) > 1 {
		var next []sorbus.ElementRef
		for i := 0; i < len(level); i += fanOut {
			end := i + fanOut
			if end > len(level) {
				end = len(level)
			}
			group := append([]sorbus.ElementRef{}, level[i:end]...)
			parent, err := b.Node(sorbus.Kind(999), group)
			if err != nil {
				panic(err)
			}
			next = append(next, parent)
		}
		level = next
	}
	*out = level[0]
	return BenchResult{Name: "Build interned tree", Duration: time.Since(start), Ops: tokenCount}
}

func benchDescend(root sorbus.ElementRef) BenchResult {
	start := time.Now()
	const samples = 10_000
	width := root.Width()
	for i := 0; i < samples; i++ {
		p := uint32(rand.Intn(int(width)))
		if _, _, err := sorbus.Descend(root, p); err != nil {
			panic(err)
		}
	}
	return BenchResult{Name: "Descend to token", Duration: time.Since(start), Ops: samples}
}

func benchWalk(root sorbus.ElementRef) BenchResult {
	start := time.Now()
	count := 0
	sorbus.Walk(root, func(offset uint32, ref sorbus.ElementRef) bool {
		count++
		return true
	})
	return BenchResult{Name: "Walk whole tree", Duration: time.Since(start), Ops: count}
}

func benchDrop(root sorbus.ElementRef) BenchResult {
	start := time.Now()
	root.Drop()
	return BenchResult{Name: "Drop tree (non-recursive)", Duration: time.Since(start)}
}
