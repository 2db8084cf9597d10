// Package component defines the lifecycle contract for long-lived
// resources such as HTTP sessions, and a Registry that starts them in
// registration order and stops them in reverse.
package component
