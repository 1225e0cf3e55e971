// Package weightcache provides the load-time store of transcoded ternary
// weight tensors.
//
// A Cache owns one immutable computation-layout buffer per registered
// tensor. Registration (Put) performs the storage→computation transcoding
// exactly once; inference-time lookups (Bytes) are a slot dereference with a
// generation check and no transform.
//
// # Concurrency Model
//
// Read operations (Bytes, Stats) take a read lock and are safe to call
// concurrently with each other and with kernel calls over returned buffers,
// which are never mutated after Put returns. Mutating operations (Put,
// PutBatch, Release, Close) serialize on the write lock. The expected usage
// pattern keeps mutation in a load/unload phase, but overlapping load and
// inference is safe.
//
// # Handles
//
// A Handle is a generation-checked reference, not a raw pointer: releasing
// an entry bumps its slot generation, so stale handles (use-after-release,
// double release) are detected and reported as misses rather than being
// undefined. The zero Handle is never valid.
package weightcache
