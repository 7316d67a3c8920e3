// Package pkginfo persists what nanotex has learned about distribution
// packages: which packages each one depends on and which LaTeX modules and
// classes it provides.
//
// The database is a single JSON document:
//
//	{
//	  "packages": {
//	    "amsmath": {"deps": ["tools"], "provides": ["amsmath", "amstext"]}
//	  }
//	}
//
// A [Store] is opened once per process through a [Backend] (local file,
// HTTP mirror or Redis), mutated in memory by [Store.RecordDeps] and
// [Store.RecordModules], and written back explicitly with [Store.Save].
// There is no cross-process locking; concurrent writers race and the last
// save wins.
package pkginfo
