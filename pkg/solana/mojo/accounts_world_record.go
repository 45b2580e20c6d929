package mojo

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana/binary"
)

const (
	WorldAccountRecordSize = (32 + // creator
		SeedHashSize) // seed
)

// WorldAccountRecord is the initial payload of a world account.
type WorldAccountRecord struct {
	Creator ed25519.PublicKey
	Seed    SeedHash
}

func (obj *WorldAccountRecord) Marshal() []byte {
	var offset int

	data := make([]byte, WorldAccountRecordSize)

	binary.PutKey32(data, obj.Creator, &offset)
	binary.PutBytes(data, obj.Seed[:], &offset)

	return data
}

// Unmarshal decodes the record from the first WorldAccountRecordSize bytes
// of data.
func (obj *WorldAccountRecord) Unmarshal(data []byte) error {
	if len(data) < WorldAccountRecordSize {
		return errors.Wrapf(ErrSerialization, "world record is %d bytes, expected %d", len(data), WorldAccountRecordSize)
	}

	var offset int

	binary.GetKey32(data, &obj.Creator, &offset)
	copy(obj.Seed[:], data[offset:offset+SeedHashSize])

	return nil
}

func (obj *WorldAccountRecord) String() string {
	return fmt.Sprintf(
		"WorldAccountRecord{creator=%s,seed=%x}",
		base58.Encode(obj.Creator),
		obj.Seed[:],
	)
}
