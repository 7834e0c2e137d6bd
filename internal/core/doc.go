// Package core provides the property distance sorting pipeline.
//
// The package holds all domain logic independent of any UI or transport
// layer. The web server and the CLI both drive it through [Session] and
// [Service].
//
// # Pipeline
//
// An upload is turned into a [Table] and then pushed through four stages:
//
//  1. [Loader.Load] reads CSV (UTF-8 with BOM stripping, Latin-1 fallback)
//     or a spreadsheet via a [SheetReader]
//  2. [ResolveColumns] guesses which columns play the Name, Distance and
//     Neighborhood roles; the user may override any guess
//  3. [NormalizeDistance] parses the distance column, turning anything
//     that is not a plain decimal into a missing cell
//  4. [Select] keeps the chosen names and [SortRows] orders them by
//     distance, dropping rows with a missing distance
//
// [Analyze] adds min/max/mean/median/p90 and per-neighborhood counts, and
// [Result.CSV] / [Result.XLSX] export the sorted rows.
//
// # Sessions
//
// A [Session] owns one user's table, binding, selection and last result.
// A failed step never clears what was there before. [Service] keeps the
// sessions in memory, expires idle ones and bounds concurrent parsing with
// a [Limiter].
//
// # Error Handling
//
// Errors are typed ([LoadError], [ResolutionError]) or sentinels
// ([ErrEmptySelection], [ErrNoMatchingRows], ...). [MapError] turns any of
// them into a [UserMessage] with a stable code:
//
//   - LOAD001-LOAD005: file loading
//   - COL001-COL002: column binding
//   - SEL001, RES001: selection and result warnings
//   - SES001-SES002: session state
//   - UPL002, RATE001: throttling
package core
