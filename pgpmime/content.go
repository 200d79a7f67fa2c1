package pgpmime

// MailContent is the plaintext of a message.
type MailContent struct {
	Body        string
	Attachments []Attachment
}

// Attachment is a named file carried by a message.
type Attachment struct {
	Filename string
	Content  []byte
}
