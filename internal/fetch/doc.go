// Package fetch implements the concurrent HTTP retrieval engine: the
// shared pooled client, the page fetcher and asset downloader with
// their retry policies, and the run-wide download semaphore gate.
package fetch
