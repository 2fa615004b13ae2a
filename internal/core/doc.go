// Package core provides the business logic for the CSV records API,
// independent of any transport.
//
// # Components
//
//   - [Loader] reads the CSV source into [Record] values. It re-reads the file
//     on every call; nothing parsed is kept between requests.
//   - [DeriveFilters] computes the distinct Region, Country and Item Type
//     values as a [FilterSet].
//   - [Packager] writes an export payload as indented JSON into a
//     single-entry zip [Archive] at a unique temp path.
//   - [Service] wires the above together and bounds concurrent exports with
//     an [ExportLimiter].
//
// # Export Lifecycle
//
//  1. [Service.Export] acquires an export slot
//  2. The payload is encoded and the archive written, flushed and closed
//  3. The caller streams [Archive.Open] to the client
//  4. The caller invokes the release func, which removes the file and frees the slot
//
// Archives left behind by a crashed process are removed by
// [Service.StartSweeper].
//
// # Error Handling
//
// All failures wrap a sentinel ([ErrIO], [ErrParse], [ErrMissingColumn],
// [ErrSerialization], [ErrTooManyExports]); [MapError] turns them into codes
// for log correlation.
package core
