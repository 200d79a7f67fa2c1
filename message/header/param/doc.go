// Package param provides a tool for dealing with parameterized headers. These
// headers include the Content-Type and Content-Disposition header. In addition,
// it provides some helper methods for breaking down the MIME types that get
// set in the Content-Type header.
//
// Parsing splits on semicolons that are not inside a quoted string. An
// unquoted value that itself contains a semicolon cannot be told apart from a
// parameter separator, so only Content-Type, Content-Disposition and
// Content-Transfer-Encoding should be read with this package.
package param
