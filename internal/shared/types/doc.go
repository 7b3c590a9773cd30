// Package types provides shared data structures for the console backend.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - InputRequest: Raw console input
//   - CommandRequest: One console command line
package types
