// Package virtual holds the fabricated machine a console session runs
// against: working directory, environment variables, a static process
// table and a read-only file tree embedded from tree.yaml.
//
// Nothing here touches the real filesystem. Paths are resolved
// syntactically and never validated.
package virtual
