// Command triegen is the offline build-time counterpart to the runtime
// trie package: it reads a flat list of codepoint-range/value assignments,
// brute-forces per-stage bit-width combinations, and reports the smallest
// resulting trie's size. It produces no Go source; the runtime package
// that consumes the winning configuration builds its own trie.Trie via
// trie.Builder at program init from the same source ranges.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/unicode-primitives/unidata/trie"
)

// assignment is one parsed input line: codepoints in [Lo, Hi) map to Value.
type assignment struct {
	Lo, Hi uint32
	Value  uint32
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New("usage: triegen <ranges-file> [minBits] [maxBits] [stages]")
	}
	minBits, maxBits, stages := 2, 8, 3

	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid minBits %q", args[1])
		}
		minBits = v
	}
	if len(args) > 2 {
		v, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrapf(err, "invalid maxBits %q", args[2])
		}
		maxBits = v
	}
	if len(args) > 3 {
		v, err := strconv.Atoi(args[3])
		if err != nil {
			return errors.Wrapf(err, "invalid stages %q", args[3])
		}
		stages = v
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "opening %s", args[0])
	}
	defer f.Close()

	assignments, domainBits, err := parseAssignments(f)
	if err != nil {
		return err
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].Lo < assignments[j].Lo })

	report, err := buildBest(assignments, domainBits, minBits, maxBits, stages)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "best layout: stage bits %v\n", report.stageBits)
	fmt.Fprintf(out, "stages: %d, total size: %s (%d words)\n",
		report.trie.Stages(), humanize.Bytes(uint64(report.trie.TotalWords()*8)), report.trie.TotalWords())
	return nil
}

// parseAssignments reads whitespace-separated "lo hi value" triples (hi
// exclusive, both in hex or decimal per strconv.ParseUint's 0-prefix
// rules) and returns the domain's required bit width.
func parseAssignments(r io.Reader) ([]assignment, int, error) {
	var out []assignment
	var maxHi uint64

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, 0, errors.Errorf("line %d: expected 3 fields, got %d", line, len(fields))
		}
		lo, err := strconv.ParseUint(fields[0], 0, 32)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "line %d: lo", line)
		}
		hi, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "line %d: hi", line)
		}
		v, err := strconv.ParseUint(fields[2], 0, 32)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "line %d: value", line)
		}
		out = append(out, assignment{Lo: uint32(lo), Hi: uint32(hi), Value: uint32(v)})
		if hi > maxHi {
			maxHi = hi
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "reading ranges")
	}

	bits := 1
	for (uint64(1) << uint(bits)) < maxHi {
		bits++
	}
	return out, bits, nil
}

type buildResult struct {
	stageBits []int
	trie      *trie.Trie[uint32]
}

// buildBest brute-forces every combination of (stages-1) configurable
// stage widths in [minBits, maxBits] plus a last (root-side) width chosen
// to make the stages sum to domainBits, building each candidate trie
// concurrently via an errgroup.Group and keeping the smallest.
func buildBest(assignments []assignment, domainBits, minBits, maxBits, stages int) (buildResult, error) {
	if stages < 1 {
		return buildResult{}, errors.New("stages must be >= 1")
	}
	delta := maxBits - minBits + 1
	if delta <= 0 {
		return buildResult{}, errors.New("maxBits must be >= minBits")
	}

	iters := 1
	for i := 0; i < stages-1; i++ {
		iters *= delta
	}

	results := make([]buildResult, iters)
	g := new(errgroup.Group)

	for idx := 0; idx < iters; idx++ {
		idx := idx
		g.Go(func() error {
			stageBits := make([]int, stages)
			rem := idx
			used := 0
			for j := 0; j < stages-1; j++ {
				b := minBits + rem%delta
				rem /= delta
				stageBits[j] = b
				used += b
			}
			terminal := domainBits - used
			if terminal < 1 {
				// This combination over-allocates the inner stages; skip by
				// building a trivial 1-bit terminal stage that still
				// validates, and let its size lose the comparison.
				terminal = 1
			}
			stageBits[stages-1] = terminal

			b := trie.NewBuilder[uint32](0, stageBits)
			for _, a := range assignments {
				if err := b.PutRange(a.Lo, a.Hi, a.Value); err != nil {
					return errors.Wrapf(err, "combination %v", stageBits)
				}
			}
			results[idx] = buildResult{stageBits: stageBits, trie: b.Build()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return buildResult{}, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.trie.TotalWords() < best.trie.TotalWords() {
			best = r
		}
	}
	return best, nil
}
