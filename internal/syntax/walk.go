package syntax

// Listener receives post-order completion events.
type Listener interface {
	// Exit is called once per node, after Exit has been called for every
	// descendant. A non-nil error stops the walk.
	Exit(n *Node) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(n *Node) error

// Exit calls f(n).
func (f ListenerFunc) Exit(n *Node) error {
	return f(n)
}

// Walk visits every node of the tree rooted at root exactly once in
// post-order and returns the first error reported by l.
func Walk(root *Node, l Listener) error {
	if root == nil {
		return nil
	}
	for _, c := range root.Children {
		if err := Walk(c, l); err != nil {
			return err
		}
	}
	return l.Exit(root)
}
