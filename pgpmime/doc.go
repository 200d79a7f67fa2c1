// Package pgpmime composes and opens PGP/MIME messages as described in
// RFC 3156.
//
// An outgoing message is a MailContent: a text body plus any number of file
// attachments. Compose turns it into a MIME tree, hands the serialized tree to
// an Encrypter exactly once, and wraps the returned ASCII-armored ciphertext
// in the two part multipart/encrypted shape:
//
//	Content-Type: multipart/encrypted; protocol="application/pgp-encrypted"; boundary=...
//
//	--...
//	Content-Type: application/pgp-encrypted
//
//	Version: 1
//	--...
//	Content-Type: application/octet-stream
//
//	-----BEGIN PGP MESSAGE-----
//	...
//
// Open reverses this. The shape of the encrypted message is checked strictly
// and any deviation fails with ErrUnsupportedMimeContent; nothing is handed to
// the Decrypter unless the message is exactly the expected shape.
//
// The lower level steps are available as BuildPlaintextTree, WrapEncrypted,
// ExtractEncryptedPayload, and ExtractMailContent.
package pgpmime
