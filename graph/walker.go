package graph

// Walker is handed to a walk callback for every visited node.
type Walker struct {
	exited    bool
	continued bool
}

// Exit stops the whole walk after the current callback returns.
func (w *Walker) Exit() { w.exited = true }

// Continue skips the subtree of the current node.
func (w *Walker) Continue() { w.continued = true }

// IsExited reports whether Exit was called.
func (w *Walker) IsExited() bool { return w.exited }

// IsContinued reports whether Continue was called.
func (w *Walker) IsContinued() bool { return w.continued }
