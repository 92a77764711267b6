// Package main provides the entry point for the checklinks CLI.
//
// checklinks evaluates how trustworthy a link is. It extracts URLs from
// text or documents, runs a set of network checks against each site and
// turns the results into a score and a trust level.
//
// Usage:
//
//	checklinks check <url>...
//	checklinks text "message with links"
//	checklinks text --file report.docx
//	checklinks serve
//
// See --help for all available options.
package main

// main is the entry point for checklinks.
func main() {
	Execute()
}
