// Package bisect implements the binary-search controller over a delta set.
//
// A Session tracks an inclusive index range [LowerBound, UpperBound] of
// still-suspect entries. Each step tests the cumulative prefix of the active
// range up to its midpoint: a Bad verdict keeps the lower half, a Good
// verdict keeps the upper half. The search terminates in at most
// ceil(log2(n)) verdicts and ends with the single entry consistent with
// every recorded verdict.
//
// Verdicts are taken at face value. The search assumes one monotonically
// isolatable culprit; it does not detect contradictory (flaky) verdicts.
// Sessions are plain data so they can be persisted between CLI invocations —
// every mutation goes through Start, RecordVerdict or Abandon.
package bisect
