// Package crawler implements the crawl-and-extract engine.
//
// # Architecture
//
// The Engine drives one crawl invocation: it fetches pages through the
// Fetcher, parses them into Documents, runs the Extractor over each page,
// accumulates deduplicated records, and advances via the Resolver until a
// terminal condition is reached.
//
//   - Fetcher: HTTP transport with a fixed timeout and identifying User-Agent
//   - Document: selector-based lookup over a parsed HTML tree
//   - Extractor: positional pairing of text and attribution nodes
//   - Resolver: ordered fallback strategies for next-page discovery
//   - Batch: concurrent execution of independent crawls
//
// # Termination
//
// A crawl always terminates: every URL is added to the visited set before
// its fetch completes, so cyclic page graphs stop at the first revisit, and
// an optional page limit bounds even acyclic chains. Fetch and parse
// failures end the crawl gracefully with partial results.
package crawler
