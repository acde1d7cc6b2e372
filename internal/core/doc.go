// Package core provides the query engine for the university program search.
//
// The engine holds an immutable [Table] of program records and, given a
// [FilterState], produces an ordered result set and a page of it. It has no
// storage or UI dependencies; the web server and the CLI are thin layers over it.
//
// # Query Engine
//
// The pure operations are:
//
//   - [AvailableCities]: city selector options for a country
//   - [Matches]: case-insensitive text search AND exact categorical filters
//   - [Query]: stable filter over the table, preserving table order
//   - [Paginate]: the slice of results for a [PageState]
//   - [GoToPage]: clamped page navigation
//
// Fee brackets are ordinal and always listed in domain order ([FeeCategories]);
// countries, cities and levels are listed alphabetically.
//
// # Sessions
//
// A [Session] is one user's FilterState and PageState over the shared table.
// Its setters are the only mutation entry points and re-clamp the page after
// every change:
//
//	s := core.NewSession("id", table)
//	s.SetCountryFilter("France")
//	s.SetPageSize(5)
//	s.GoToNextPage()
//	view := s.View()
//
// [SessionStore] keeps one session per visitor and expires idle ones.
//
// # Error Handling
//
// Engine operations are total and never fail: malformed fields arrive as
// neutral defaults and out-of-range pages are clamped. Errors exist only at
// the edges (loading, HTTP) and are mapped to user messages by [MapError].
package core
