// Package document extracts plain text from uploaded files so that URLs can
// be found in it.
//
// Supported formats are chosen by file extension:
//
//	.txt         decoded from UTF-8, UTF-16 (with BOM) or a sniffed legacy charset
//	.html, .htm  text nodes plus href, src and action attribute values
//	.docx        character data and external relationship targets of every XML part
//	.pdf         page text, keeping only lines that look like they hold a URL or domain
//
// Legacy Word documents (.doc) are rejected with ErrLegacyDoc.
package document
