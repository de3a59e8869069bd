// Package generation turns free-form study notes into flashcard drafts.
//
// Two sources are supported: plain text split into blank-line separated
// blocks, and spreadsheets with the front in column A and the back in
// column B. Both apply the same minimum length rule and report rejected
// input as skipped rather than failing the whole batch.
package generation
