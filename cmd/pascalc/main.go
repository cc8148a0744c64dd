// pascalc scans, parses and checks programs written in a small Pascal dialect.
//
// Usage:
//
//	pascalc lex prog.pas [-o prog.tokens]
//	pascalc parse prog.tokens [--format yaml]
//	pascalc check prog.pas [more.pas ...]
//	pascalc vars [--category variable] prog.pas
//	pascalc grep [-i] [--code] [-C num] pattern prog.pas
//
// Files ending in .pas are scanned, anything else is read as a token file.
// The exit status is 1 for lexical, syntax and semantic errors, 2 for
// usage, I/O and configuration errors and 0 otherwise. grep exits with 1
// when nothing matched.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
