// Package logging provides opt-in file-based logging with rotation for
// upgradecheck. When --debug is set, JSON logs are written to
// ~/.upgradecheck/logs/ so failed runs can be troubleshot afterwards,
// while stderr keeps the configured level.
//
// Without --debug records at logging.level and above go to stderr as text.
package logging
