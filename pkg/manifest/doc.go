// Package manifest reads TeX Live package manifests (tlpobj records) and
// builds the file ownership index used to lift file-level dependencies to
// package-level ones.
//
// A manifest is a line-oriented record. Lines starting with a space list
// the files the package owns, relative to the distribution root and
// prefixed with a relocation marker:
//
//	name amsmath
//	runfiles size=42
//	 RELOC/tex/latex/amsmath/amsmath.sty
//	 RELOC/tex/latex/amsmath/amstext.sty
//	execute addMap euler.map
//
// Lines starting with "execute" describe post-install actions; the first
// token after the keyword is the action name, the remaining tokens its
// arguments.
//
// # File Index
//
// [BuildIndex] produces two views: package → owned files, and file
// basename → owning packages. A basename may be owned by several
// packages; every owner is kept as a candidate.
package manifest
