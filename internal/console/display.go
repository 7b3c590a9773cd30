package console

import "github.com/GriffinCanCode/opsconsole/internal/console/style"

// Display is the surface one session writes to. The manager calls it only
// from the loop goroutine, so implementations need no locking against the
// manager, but they must never call back into the manager synchronously.
type Display interface {
	// Render appends styled text. Line breaks are carried in the text.
	Render(text style.Text)
	// Clear erases the surface.
	Clear()
	// Attach binds the surface to the visible viewport and re-lays it out.
	Attach()
	// Detach unbinds the surface. Output keeps accumulating.
	Detach()
	// Close releases the surface. The manager calls it exactly once.
	Close() error
}

// DisplayFactory creates the display for a new session.
type DisplayFactory func(info SessionInfo) Display
