// Package message builds and parses MIME messages as trees of parts.
//
// A message to send is built from Node values. Create the root with NewNode,
// add parts to a multipart with AddChild, and serialize with Build:
//
//	root := message.NewNode(message.Config{
//	  ContentType: "multipart/mixed",
//	  Multipart:   true,
//	})
//	body := root.AddChild(message.Config{ContentType: "text/plain"})
//	body.SetContent("Hello World!")
//	text, err := root.Build()
//
// A message received is read with Parse, which returns a tree of *Parsed
// parts. Parsing is strict about structure: a part without a header/body
// separator or a multipart without its delimiters is an error rather than a
// best guess.
//
// Output always uses CRLF line breaks. Parse expects CRLF as well.
package message
