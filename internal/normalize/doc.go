// Package normalize canonicalizes URL strings and rejects input that is not
// a well-formed URL.
//
// The canonical form is what the evaluation cache is keyed on: scheme
// prefixed (https:// is assumed when no scheme is given), surrounding
// whitespace removed and no trailing slash.
package normalize
