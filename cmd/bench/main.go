// Bench measures hashbin bucketing throughput against non-stable baseline
// hashes (xxHash64, XXH3, murmur3) over the same keys.
//
// Usage:
//
//	go run ./cmd/bench -keys 10000000 -bins 1000000 -workers 8
//	go run ./cmd/bench -input values.txt.zst -bins 1000
//
// Flags:
//
//	-keys      Number of random keys when no input is given (default: 10,000,000)
//	-keylen    Maximum random key length in bytes (default: 24)
//	-bins      Number of buckets (default: 1,000,000)
//	-workers   Number of parallel workers for the column passes (default: 1)
//	-input     Newline-delimited key file (.zst and .gz are decompressed)
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/tamirms/hashbin"
	"github.com/tamirms/hashbin/internal/input"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

type result struct {
	name     string
	duration time.Duration
}

func main() {
	keysFlag := flag.Int("keys", 10_000_000, "number of random keys")
	keyLenFlag := flag.Int("keylen", 24, "maximum random key length in bytes")
	binsFlag := flag.Int("bins", 1_000_000, "number of buckets")
	workersFlag := flag.Int("workers", 1, "number of parallel workers")
	inputFlag := flag.String("input", "", "newline-delimited key file")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (hashbin passes only)")
	flag.Parse()

	var keys [][]byte
	var loadDuration time.Duration
	if *inputFlag != "" {
		fmt.Printf("Loading %s...\n", *inputFlag)
		loadStart := time.Now()
		src, err := input.Open(*inputFlag)
		if err != nil {
			fmt.Printf("Open failed: %v\n", err)
			return
		}
		defer func() { _ = src.Close() }()
		for line := range src.Lines() {
			keys = append(keys, line)
		}
		loadDuration = time.Since(loadStart)
	} else {
		fmt.Println("Generating keys...")
		keys = make([][]byte, *keysFlag)
		for i := range keys {
			keys[i] = make([]byte, 1+mrand.IntN(max(1, *keyLenFlag)))
			_, _ = rand.Read(keys[i]) // crypto/rand.Read error is fatal system issue; ignore for benchmark
		}
	}
	numKeys := len(keys)
	if numKeys == 0 {
		fmt.Println("No keys to hash")
		return
	}

	vals := make([]hashbin.Scalar, numKeys)
	for i, k := range keys {
		vals[i] = hashbin.String(string(k))
	}

	fast, err := hashbin.New(*binsFlag, hashbin.WithWorkers(*workersFlag))
	if err != nil {
		fmt.Printf("New failed: %v\n", err)
		return
	}
	strong, err := hashbin.New(*binsFlag, hashbin.WithWorkers(*workersFlag), hashbin.WithSalt(133, 137))
	if err != nil {
		fmt.Printf("New failed: %v\n", err)
		return
	}

	bins := uint64(*binsFlag)
	var sink uint64
	baseline := func(name string, fn func([]byte) uint64) result {
		start := time.Now()
		for _, k := range keys {
			sink += fn(k) % bins
		}
		return result{name, time.Since(start)}
	}

	fmt.Println("Hashing baselines...")
	results := []result{
		baseline("xxhash64 (mod)", xxhash.Sum64),
		baseline("xxh3 (mod)", xxh3.Hash),
		baseline("murmur3 (mod)", murmur3.Sum64),
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	ctx := context.Background()
	column := func(name string, h *hashbin.Hasher) (result, error) {
		start := time.Now()
		out, err := h.HashColumnContext(ctx, vals)
		if err != nil {
			return result{}, err
		}
		sink += uint64(out[len(out)-1])
		return result{name, time.Since(start)}, nil
	}

	fmt.Println("Hashing with hashbin...")
	for _, pass := range []struct {
		name string
		h    *hashbin.Hasher
	}{
		{"hashbin farmhash64", fast},
		{"hashbin siphash64", strong},
	} {
		r, err := column(pass.name, pass.h)
		if err != nil {
			fmt.Printf("%s failed: %v\n", pass.name, err)
			return
		}
		results = append(results, r)
	}

	// Cross each key with its neighbour's key as a second dense column.
	shifted := append(vals[1:len(vals):len(vals)], vals[0])
	crossStart := time.Now()
	res, err := fast.CrossContext(ctx, hashbin.DenseFromColumn(vals), hashbin.DenseFromColumn(shifted))
	if err != nil {
		fmt.Printf("Cross failed: %v\n", err)
		return
	}
	sink += uint64(res.Dense.Values[0])
	results = append(results, result{"hashbin cross x2", time.Since(crossStart)})

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}

	fmt.Printf("\n")
	fmt.Printf("Keys: %d  Bins: %d  Workers: %d  Peak RSS: %.1f MB  (checksum %d)\n",
		numKeys, *binsFlag, *workersFlag, float64(getMaxRSS())/1_000_000, sink%1000)
	if loadDuration > 0 {
		fmt.Printf("Input load: %.2f sec\n", loadDuration.Seconds())
	}
	fmt.Printf("╔═════════════════════╦════════════════╦════════════════╗\n")
	fmt.Printf("║ Pass                ║ Time           ║ Throughput     ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╬════════════════╣\n")
	for _, r := range results {
		fmt.Printf("║ %-19s ║ %8.3f sec   ║ %6.2f M/sec   ║\n",
			r.name, r.duration.Seconds(), float64(numKeys)/r.duration.Seconds()/1_000_000)
	}
	fmt.Printf("╚═════════════════════╩════════════════╩════════════════╝\n")
}
