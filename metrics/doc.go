// Package metrics aggregates routing results: per-router summaries, the
// plain-text report, one CSV row per payment, and Prometheus collectors for
// live runs.
//
// Averages of hops, delay and fee are taken over successful payments only;
// failed attempts still count towards the total and the failure reasons.
package metrics
