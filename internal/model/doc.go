// Package model defines the core data structures shared across quotegrab.
//
// The central type is Record, the immutable text/attribution pair produced
// by extraction. Summary aggregates statistics over a crawl's result
// sequence for reporting.
package model
