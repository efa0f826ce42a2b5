// Package scheduler drives a reconciliation run: it filters eligible input
// rows, slices them into fixed-size batches, fans each batch out to the
// fetcher under a concurrency bound, routes results through the name matcher,
// partitions candidates into the kept and removed output streams, and
// advances the checkpoint after every batch.
//
// Batches are strictly sequential; a crash loses at most one in-flight
// batch. Within a batch fetches run concurrently but output order always
// equals input order. A terminal fetch error (blocked session, exhausted
// rate-limit retries) cancels in-flight siblings and halts the run with the
// checkpoint intact.
package scheduler
