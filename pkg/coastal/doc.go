// Package coastal computes the conditions shown on the beach dashboard: an
// approximate current tide height and trend, the next tide from a daily
// schedule, and a ranking of candidate swim windows.  Every function is pure;
// the reference time and all tables are passed in by the caller, so results
// only depend on the arguments.
package coastal
