// Package logging builds the slog loggers used across bakeset: a single-line
// console handler for terminals and a JSON handler for machine consumption,
// both driven by the logging section of the config.
package logging
