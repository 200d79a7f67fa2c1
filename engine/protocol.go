package engine

import "github.com/zostay/go-pgpmime/pgpmime"

// Operations understood by the remote protocol.
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

// request is one line sent to a remote engine.
type request struct {
	ID          string   `json:"id"`
	Op          string   `json:"op"`
	Plaintext   string   `json:"plaintext,omitempty"`
	Recipients  []string `json:"recipients,omitempty"`
	Signer      string   `json:"signer,omitempty"`
	Passphrases []string `json:"passphrases,omitempty"`
	Ciphertext  string   `json:"ciphertext,omitempty"`
}

// response is one line sent back by a remote engine.
type response struct {
	ID     string `json:"id"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func encryptRequest(req pgpmime.EncryptRequest) *request {
	return &request{
		Op:          OpEncrypt,
		Plaintext:   req.PlaintextMIME,
		Recipients:  req.Recipients,
		Signer:      req.Signer,
		Passphrases: req.Passphrases,
	}
}

func (r *request) encryptRequest() pgpmime.EncryptRequest {
	return pgpmime.EncryptRequest{
		PlaintextMIME: r.Plaintext,
		Recipients:    r.Recipients,
		Signer:        r.Signer,
		Passphrases:   r.Passphrases,
	}
}
