// Package walker visits the parts of a parsed message tree.
package walker

import (
	"github.com/zostay/go-pgpmime/message"
)

// Parts is a function that can be processed for each part of a message. The
// depth is 0 for the message itself and i is the index of the part within
// its parent.
type Parts func(depth, i int, part *message.Parsed) error

// Walk performs a depth first search for all the parts of a message starting
// with the message itself. It calls the Parts function for each part of the
// message. If the function returns an error, then processing stops
// immediately and the error is returned.
func (w Parts) Walk(msg *message.Parsed) error {
	type part struct {
		depth int
		i     int
		part  *message.Parsed
	}

	openStack := make([]part, 0, 10)

	pushStack := func(depth int, msg *message.Parsed) {
		parts := msg.GetParts()
		for i := len(parts) - 1; i >= 0; i-- {
			openStack = append(openStack, part{depth, i, parts[i]})
		}
	}

	popStack := func() part {
		end := len(openStack) - 1
		p := openStack[end]
		openStack = openStack[:end]
		return p
	}

	openStack = append(openStack, part{0, 0, msg})
	for len(openStack) > 0 {
		p := popStack()
		if err := w(p.depth, p.i, p.part); err != nil {
			return err
		}
		pushStack(p.depth+1, p.part)
	}

	return nil
}

// WalkLeaves will call the Parts function for each part that is not a
// multipart, using a depth first traversal. It will terminate the walk
// immediately if the function returns an error and will return the error.
func (w Parts) WalkLeaves(msg *message.Parsed) error {
	var lw Parts = func(depth, i int, part *message.Parsed) error {
		if !part.IsMultipart() {
			return w(depth, i, part)
		}
		return nil
	}
	return lw.Walk(msg)
}

// WalkMultipart will call the Parts function for each multipart using a depth
// first traversal. It will terminate the walk immediately if the function
// returns an error and will return that error.
func (w Parts) WalkMultipart(msg *message.Parsed) error {
	var mw Parts = func(depth, i int, part *message.Parsed) error {
		if part.IsMultipart() {
			return w(depth, i, part)
		}
		return nil
	}
	return mw.Walk(msg)
}
