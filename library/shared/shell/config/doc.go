// Package config loads the application configuration from the environment and builds
// the infrastructure it describes: database connections for every supported driver,
// the borrowing store on top of them, OpenTelemetry providers and loggers.
//
// A .env file in the working directory is loaded first if present, real environment
// variables take precedence over it.
package config
