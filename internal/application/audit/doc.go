// Package audit implements the core audit pipeline.
//
// The manager coordinates one request end to end:
//   - Validating the question before any provider is contacted
//   - Classifying the question into a risk domain
//   - Fanning out to every configured provider adapter concurrently
//   - Reducing successful results into a consensus summary
//   - Rendering and storing the final report
//   - Publishing lifecycle events to the event bus
//
// Each provider adapter performs two sequential remote calls: the answer
// call and the audit-of-answer call, with tolerant parsing of the
// structured audit verdict.
package audit
