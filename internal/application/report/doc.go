// Package report renders audit results into the final text report.
//
// The report is modelled as an ordered list of typed sections built by
// Build and serialized by RenderText, which keeps the structure testable
// independent of cosmetic formatting. Rendering is pure and total: it
// produces output even when some or all providers failed, labelling
// failures distinctly.
package report
