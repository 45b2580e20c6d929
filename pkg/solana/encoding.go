package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana/shortvec"
)

// ToBase58 returns the base58 encoding used by explorers and the JSON-RPC API.
func (s Signature) ToBase58() string {
	return base58.Encode(s[:])
}

// Marshal encodes the transaction in the legacy wire format.
func (t Transaction) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	_, _ = shortvec.EncodeLen(b, len(t.Signatures))
	for _, s := range t.Signatures {
		_, _ = b.Write(s[:])
	}
	_, _ = b.Write(t.Message.Marshal())

	return b.Bytes()
}

// Unmarshal decodes a legacy wire format transaction. Versioned messages are
// rejected.
func (t *Transaction) Unmarshal(b []byte) error {
	d := &wireDecoder{buf: bytes.NewBuffer(b)}

	sigCount := d.length("signature count")
	t.Signatures = make([]Signature, sigCount)
	for i := range t.Signatures {
		d.fill(t.Signatures[i][:], "signature")
	}
	if d.err != nil {
		return d.err
	}

	return t.Message.Unmarshal(d.buf.Bytes())
}

func (m Message) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	_, _ = b.Write([]byte{m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadOnly})

	_, _ = shortvec.EncodeLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		_, _ = b.Write(a)
	}

	_, _ = b.Write(m.RecentBlockhash[:])

	_, _ = shortvec.EncodeLen(b, len(m.Instructions))
	for _, ix := range m.Instructions {
		_ = b.WriteByte(ix.ProgramIndex)
		writeVec(b, ix.Accounts)
		writeVec(b, ix.Data)
	}

	return b.Bytes()
}

func (m *Message) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty message")
	}
	if b[0]&0x80 != 0 {
		return errors.New("versioned messages not supported")
	}

	d := &wireDecoder{buf: bytes.NewBuffer(b)}

	m.Header.NumSignatures = d.byte("header")
	m.Header.NumReadonlySigned = d.byte("header")
	m.Header.NumReadOnly = d.byte("header")

	m.Accounts = make([]ed25519.PublicKey, d.length("account count"))
	for i := range m.Accounts {
		m.Accounts[i] = d.bytes(ed25519.PublicKeySize, "account")
	}

	d.fill(m.RecentBlockhash[:], "recent blockhash")

	m.Instructions = make([]CompiledInstruction, d.length("instruction count"))
	for i := range m.Instructions {
		ix := &m.Instructions[i]
		ix.ProgramIndex = d.byte("program index")
		ix.Accounts = d.bytes(d.length("instruction accounts"), "instruction accounts")
		ix.Data = d.bytes(d.length("instruction data"), "instruction data")
		if d.err != nil {
			return errors.Wrapf(d.err, "instruction %d", i)
		}

		if int(ix.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("program index out of range: %d:%d", i, ix.ProgramIndex)
		}
		for _, index := range ix.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("account index out of range: %d:%d", i, index)
			}
		}
	}

	return d.err
}

func writeVec(b *bytes.Buffer, data []byte) {
	_, _ = shortvec.EncodeLen(b, len(data))
	_, _ = b.Write(data)
}

// wireDecoder reads sequential fields, keeping the first error. Reads after an
// error are no-ops that return zero values.
type wireDecoder struct {
	buf *bytes.Buffer
	err error
}

func (d *wireDecoder) byte(field string) byte {
	if d.err != nil {
		return 0
	}

	v, err := d.buf.ReadByte()
	if err != nil {
		d.err = errors.Wrapf(err, "failed to read %s", field)
	}
	return v
}

func (d *wireDecoder) length(field string) int {
	if d.err != nil {
		return 0
	}

	n, err := shortvec.DecodeLen(d.buf)
	if err != nil {
		d.err = errors.Wrapf(err, "failed to read %s", field)
		return 0
	}
	return n
}

func (d *wireDecoder) bytes(n int, field string) []byte {
	v := make([]byte, n)
	d.fill(v, field)
	return v
}

func (d *wireDecoder) fill(dst []byte, field string) {
	if d.err != nil {
		return
	}

	if _, err := io.ReadFull(d.buf, dst); err != nil {
		d.err = errors.Wrapf(err, "failed to read %s", field)
	}
}
