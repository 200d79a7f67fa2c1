package walk

import (
	"errors"
	"fmt"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/message/transfer"
)

var (
	// ErrSkip may be returned by a Transformer callback to signal that the part
	// should be left out of the transformed message entirely.
	ErrSkip = errors.New("skip part")

	// ErrEmpty is returned by AndTransform when every part was skipped.
	ErrEmpty = errors.New("all parts skipped")
)

// BadTransformationError is used when transformation needs to fail with an
// error.
type BadTransformationError struct {
	Cause   error
	Message string
}

// Error returns the error message describing the bad transformation.
func (b *BadTransformationError) Error() string {
	return fmt.Sprintf("%s: %v", b.Message, b.Cause)
}

// Unwrap returns the error that caused the bad transformation.
func (b *BadTransformationError) Unwrap() error {
	return b.Cause
}

// Transformer is a callback that can be passed to the AndTransform() function
// to transform a parsed message and its sub-parts into a new message.Node tree.
//
// The Transformer is given dst, a copy of the part made by TransCopyPart, the
// original part, and the ancestry of the original part. If len(parents) is
// zero, then this is the top-level part. The Transformer may modify dst in any
// way that leaves it multipart if the original was multipart.
//
// Returning ErrSkip drops the part. Any other error causes AndTransform() to
// fail.
type Transformer func(dst *message.Node, part *message.Parsed, parents []*message.Parsed) error

// Copy is a Transformer that leaves every part as it is.
func Copy(*message.Node, *message.Parsed, []*message.Parsed) error {
	return nil
}

// AndTransform transforms the given message into a message.Node tree. The
// transformation is performed in depth-first order, parents before their
// children.
//
// If a multipart part is kept but all of its children are skipped, it is
// skipped as well, as an empty multipart cannot be built. If the top-level part
// is skipped, ErrEmpty is returned.
func AndTransform(
	transformer Transformer,
	msg *message.Parsed,
) (*message.Node, error) {
	parents := make([]*message.Parsed, 0, 10)
	n, err := andTransform(transformer, msg, parents)
	if errors.Is(err, ErrSkip) {
		return nil, ErrEmpty
	}
	return n, err
}

func andTransform(
	transformer Transformer,
	part *message.Parsed,
	parents []*message.Parsed,
) (*message.Node, error) {
	dst, err := TransCopyPart(part)
	if err != nil {
		return nil, &BadTransformationError{err, "unable to copy part"}
	}

	if err := transformer(dst, part, parents); err != nil {
		return nil, err
	}

	if !part.IsMultipart() {
		return dst, nil
	}

	if !dst.IsMultipart() {
		return nil, &BadTransformationError{message.ErrNotMultipart, "Transformer replaced a multipart"}
	}

	parents = append(parents, part)
	for _, subPart := range part.GetParts() {
		child, err := andTransform(transformer, subPart, parents)
		if errors.Is(err, ErrSkip) {
			continue
		} else if err != nil {
			return nil, err
		}

		dst.AppendChild(child)
	}

	if len(dst.Children()) == 0 {
		return nil, ErrSkip
	}

	return dst, nil
}

// TransCopyPart provides a handy utility for copying an original part through
// to make a transformed part with no changes. This is intended for use with
// defining a Transformer, so this doesn't exactly copy a part.
//
// The header is cloned, including the boundary of a multipart. A leaf part
// gets a copy of its content. Base64 content is decoded and will be
// re-encoded when built, so line lengths may change. A multipart part results
// in an empty multipart message.Node.
func TransCopyPart(orig *message.Parsed) (*message.Node, error) {
	dst := message.NewNode(message.Config{
		Multipart: orig.IsMultipart(),
		Boundary:  orig.Boundary,
	})
	dst.Header = *orig.GetHeader().Clone()

	if orig.IsMultipart() {
		return dst, nil
	}

	if !transfer.IsBase64(orig.GetHeader()) {
		dst.SetContent(orig.Content)
		return dst, nil
	}

	data, err := orig.Decode()
	if err != nil {
		return nil, err
	}

	dst.SetBytes(data)
	return dst, nil
}
