// Package extract finds candidate URLs in free text.
//
// Extraction runs two passes. The first collects full URLs that carry an
// http, https or ftp scheme. The second collects bare domains such as
// "example.org" and promotes them to https URLs, skipping tokens that belong
// to e-mail addresses, localhost names, IPv4 literals and hosts already
// captured by the first pass. The result keeps first-seen order and holds no
// duplicates.
package extract
