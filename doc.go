// Package hashbin implements the "hashing trick" for categorical features:
// strings and integers are mapped to a fixed number of bucket indices with a
// hash function whose output is stable across processes, machines and CPU
// architectures.
//
// Two hash functions are available. Without a salt the hasher uses FarmHash
// Fingerprint64. With a salt it uses SipHash-2-4 keyed by the salt, which
// makes bucket assignments unpredictable to anyone who does not know it.
// Integers are hashed through their canonical decimal text, so Int(42) and
// String("42") share a bucket.
//
// # Basic Usage
//
// Hashing a column:
//
//	h, err := hashbin.New(3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	buckets := h.HashStrings([]string{"A", "B", "C", "D", "E"})
//	// [1 0 1 1 2]
//
// Reserving bucket 0 for a mask value:
//
//	h, _ := hashbin.New(3, hashbin.WithMask(hashbin.String("")))
//	h.HashStrings([]string{"A", "B", "", "C", "D"})
//	// [1 1 0 2 2]
//
// Crossing columns:
//
//	h, _ := hashbin.New(100, hashbin.WithSalt(133, 137))
//	res, err := h.Cross(
//	    hashbin.DenseFromColumn(hashbin.Strings("A", "B")),
//	    &hashbin.SparseMatrix{
//	        Indices: []hashbin.Coord{{0, 0}, {0, 1}},
//	        Values:  hashbin.Ints(5, 6),
//	        Shape:   hashbin.Shape{2, 2},
//	    },
//	)
//
// # Package Structure
//
//   - Public API: hasher.go (New, Hash*, HashDense/Sparse/Ragged), cross.go (Cross)
//   - Configuration: options.go (Option, With* functions), key.go (HashKey, salt)
//   - Values and structure: scalar.go (Scalar), columns.go (column and bucket types)
//   - Persistence: config.go (Config, YAML/JSON), header.go (binary encoding)
//   - Parallelism: parallel.go (HashColumnContext, row partitioning)
//   - Hash functions: internal/stablehash/, reduction: internal/bits/
//   - CLI input loading (mmap, zstd, gzip): internal/input/
package hashbin
