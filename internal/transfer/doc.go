// Package transfer moves resolved files to their destination.
//
// An Executor takes a batch of pathresolve.ResolvedPath values and either
// stages them as one clipboard file list or copies them into a directory.
// Every input produces exactly one Outcome at the same index; per-file
// failures are recorded on the outcome and never abort the rest of the
// batch. Batches aimed at the same destination run one at a time.
package transfer
