// Package biblib parses BibTeX .bib database files into structured,
// queryable records.
//
// The scanner is modeled on BibTeX's own database reader (the WEB
// source, section "Reading the database file(s)") and reproduces its
// quirks: only space, tab, and newline count as white space; per-line
// trailing white space is discarded before scanning; @comment bodies
// are never parsed, they are swallowed by the skip to the next @; and
// a field name repeated within one entry keeps its first slot but its
// last value.
//
// BNF
//
//	Database  ::= (Junk '@' Construct)*
//	Construct ::= Comment | Preamble | String | Entry
//	Comment   ::= "comment"                        -- body skipped as Junk
//	Preamble  ::= "preamble" '{' Value '}'         -- parsed, discarded
//	String    ::= "string" '{' Name '=' Value '}'
//	Entry     ::= Type '{' Key (',' Field)* [','] '}'
//	           |  Type '(' Key (',' Field)* [','] ')'
//	Field     ::= Name '=' Value
//	Name      ::= [\x20-\x7f] minus [ \t"#%'(),={}], first char not a digit
//	Value     ::= Piece ('#' Piece)*
//	Piece     ::= [0-9]+ | '{' balanced '}' | '"' balanced '"' | Name
//
// A Parser is a session: each Parse call appends to the same macro
// table and database, so later files may use strings and crossrefs
// from earlier ones. Finalize checks crossref targets over the
// complete database and returns it. Hard errors abort only the
// construct they occur in; the rest of the input still parses, and
// every error of one call is returned bundled as a messages.ErrorList.
package biblib
