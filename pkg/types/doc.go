// Package types defines the habit tracker entities, the key/value storage
// interface that backends implement, configuration, and the standard errors
// shared by the store, the backends and the CLI.
package types
