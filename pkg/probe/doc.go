// Package probe discovers package dependencies empirically: it compiles a
// minimal document that loads the requested modules, reads which
// distribution files the compiler opened from inside which others, and
// records the resulting package-level edges in the package database.
//
// # Inputs
//
// An input is either a module name or, in package mode, a distribution
// package name whose manifest supplies the modules and classes to load.
// Module names accept options in two spellings:
//
//	[utf8]inputenc   ->  \usepackage[utf8]{inputenc}
//	inputenc:utf8    ->  \usepackage[utf8]{inputenc}
//
// # Failure policy
//
// A compiler failure or a missing manifest aborts the probe. With
// [Options.Tenacious] set the failure is logged instead and the input is
// skipped; the database is never touched by a failed probe.
package probe
