// Package core provides the business logic for tabular data uploads.
//
// The package holds all domain logic independent of any UI or transport
// layer. The web server, the CLI and the tests all drive it through the same
// types.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Schema Registry: the required field terms of each entity category,
//     registered at init time via [RegisterSchema].
//   - Validation: [CellValidator] runs the classifier chain over one cell and
//     [FileValidator] adds the column and duplicate-identifier checks.
//   - Rules: [Rule] conditions are evaluated over working rows by
//     [EvaluateRules]; [RuleStore] keeps the ordered rule set.
//   - Priorities: [PriorityWeights] is renormalized whenever one weight moves.
//   - Service: the session holding uploaded files, rules and weights.
//
// # Files
//
// A [DataFile] keeps two grids. Rows is the working copy that edits replace
// as a whole; Original is the grid as parsed and never changes. Every edit
// re-runs validation for the file and replaces its issue list.
//
//	s := core.NewService(core.ServiceConfig{MaxFilesPerBatch: 10}, nil)
//	out, err := s.UploadBatch(ctx, []core.UploadInput{{Name: "clients.csv", Reader: r}})
//
// # Issues
//
// Validation findings are data, not errors. Only [SeverityError] issues
// block [Service.CanAdvance].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE009: File errors (size, encoding, format, category)
//   - SES001-SES003: Session errors (unknown file, cell range, blocking issues)
//   - RULE001-RULE003 and WGT001-WGT004: Rule and weight errors
//   - UPL001-UPL005, RATE001, AUTH001: Request errors
package core
