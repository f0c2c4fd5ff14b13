// Package logging configures log/slog for the mcsync CLI.
//
// The text handler prints one colorized line per record when stderr is a
// terminal; JSON output is selected with --log-format json, and --log-file
// adds a JSON sink through [MultiHandler].
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//	logger.Debug("backup created", "folder", "mods")
//
// Tests route logs through [ForTest] so they show up with go test -v.
package logging
