package pgpmime_test

import (
	"fmt"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/pgpmime"
)

func ExampleExtractMailContent() {
	msg, err := message.Parse("Content-Type: text/plain\r\n\r\nhello")
	if err != nil {
		panic(err)
	}

	mc, _, err := pgpmime.ExtractMailContent(msg)
	if err != nil {
		panic(err)
	}

	fmt.Println(mc.Body)
	// Output: hello
}

func ExampleExtractEncryptedPayload() {
	raw, err := pgpmime.WrapEncrypted("-----BEGIN PGP MESSAGE-----").Build()
	if err != nil {
		panic(err)
	}

	payload, err := pgpmime.ExtractEncryptedPayload(raw)
	if err != nil {
		panic(err)
	}

	fmt.Println(payload)
	// Output: -----BEGIN PGP MESSAGE-----
}
