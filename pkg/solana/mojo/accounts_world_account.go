package mojo

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana/binary"
)

const (
	MinWorldAccountSize = (32 + // owner
		4 + // name length
		4) // data length
)

// WorldAccount is a named, owner-scoped record held by the world program.
type WorldAccount struct {
	Owner ed25519.PublicKey
	Name  string
	Data  []byte
}

func (obj *WorldAccount) Size() int {
	return MinWorldAccountSize + len(obj.Name) + len(obj.Data)
}

func (obj *WorldAccount) Marshal() []byte {
	var offset int

	data := make([]byte, obj.Size())

	binary.PutKey32(data, obj.Owner, &offset)
	binary.PutLengthPrefixed(data, []byte(obj.Name), &offset)
	binary.PutLengthPrefixed(data, obj.Data, &offset)

	return data
}

func (obj *WorldAccount) Unmarshal(data []byte) error {
	if len(data) < MinWorldAccountSize {
		return errors.Wrapf(ErrSerialization, "world account is %d bytes, minimum is %d", len(data), MinWorldAccountSize)
	}

	var offset int
	var name []byte

	binary.GetKey32(data, &obj.Owner, &offset)
	if err := binary.GetLengthPrefixed(data, &name, &offset); err != nil {
		return errors.Wrapf(ErrSerialization, "name: %v", err)
	}
	if err := binary.GetLengthPrefixed(data, &obj.Data, &offset); err != nil {
		return errors.Wrapf(ErrSerialization, "data: %v", err)
	}
	if offset != len(data) {
		return errors.Wrapf(ErrSerialization, "%d trailing bytes", len(data)-offset)
	}

	obj.Name = string(name)
	return nil
}

func (obj *WorldAccount) String() string {
	return fmt.Sprintf(
		"WorldAccount{owner=%s,name=%q,data_len=%d}",
		base58.Encode(obj.Owner),
		obj.Name,
		len(obj.Data),
	)
}
