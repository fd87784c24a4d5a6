// Package logging provides opt-in file-based logging with rotation for cclsearch.
// When the --debug flag is set, JSON logs are written to ~/.cclsearch/logs/
// so query translations can be traced after the fact.
//
// Without --debug, logs go to stderr at the configured level only.
package logging
