// Package wikicorpus turns wikipedia dumps into a plain text corpus.
//
// Pages come either from the XML dump itself (NewParser for a single
// stream, NewIndexedParser for a multistream dump and its index) or
// from the JSON lines written by an extraction tool (NewRecordReader).
// Every document goes through FilterConfig.Filter, which strips the
// remaining markup and keeps only long, mostly non-Latin text.
//
// The dumps are available from the wikimedia group here:
//
//	http://dumps.wikimedia.org/
//
// See tools/wikicorpus for the command line front end.
package wikicorpus
