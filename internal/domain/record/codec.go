package record

import (
	"encoding/binary"
	"fmt"

	"github.com/jsamuelsen11/record-registry/internal/domain"
)

// Slot layout constants. The storage substrate allocates fixed-size slots;
// the codec below must match this layout byte for byte.
const (
	DiscriminatorSize = 8
	idSize            = 8
	namePrefixSize    = 4
	// nameBufferSize holds the worst-case UTF-8 encoding of MaxNameScalars
	// scalar values (4 bytes each).
	nameBufferSize = MaxNameScalars * 4
	activeSize     = 1

	// SlotSize is the fixed allocation for one record:
	// discriminator + id + length-prefixed name buffer + owner + flag.
	SlotSize = DiscriminatorSize + idSize + namePrefixSize + nameBufferSize + domain.IdentitySize + activeSize
)

// Encode serializes rec into a fixed SlotSize byte slice for kind k.
// Integers are little-endian; the name buffer is zero-padded past the
// encoded length.
func Encode(k Kind, rec *Record) ([]byte, error) {
	name := []byte(rec.Name)
	if len(name) > nameBufferSize {
		return nil, fmt.Errorf("%w: encoded name is %d bytes, buffer holds %d", domain.ErrNameTooLong, len(name), nameBufferSize)
	}

	buf := make([]byte, SlotSize)
	off := 0

	disc := k.Discriminator()
	copy(buf[off:], disc[:])
	off += DiscriminatorSize

	binary.LittleEndian.PutUint64(buf[off:], rec.ID)
	off += idSize

	binary.LittleEndian.PutUint32(buf[off:], uint32(len(name)))
	off += namePrefixSize
	copy(buf[off:], name)
	off += nameBufferSize

	copy(buf[off:], rec.Owner[:])
	off += domain.IdentitySize

	if rec.Active {
		buf[off] = 1
	}
	return buf, nil
}

// Decode deserializes a slot of kind k back into a Record. It rejects slots
// of the wrong size or carrying a foreign discriminator, which would mean
// the address derivation and the storage substrate disagree about layout.
func Decode(k Kind, data []byte) (*Record, error) {
	if len(data) != SlotSize {
		return nil, fmt.Errorf("slot is %d bytes, want %d", len(data), SlotSize)
	}
	off := 0

	disc := k.Discriminator()
	if [DiscriminatorSize]byte(data[off:off+DiscriminatorSize]) != disc {
		return nil, fmt.Errorf("slot discriminator does not match kind %q", k)
	}
	off += DiscriminatorSize

	rec := &Record{}
	rec.ID = binary.LittleEndian.Uint64(data[off:])
	off += idSize

	nameLen := binary.LittleEndian.Uint32(data[off:])
	off += namePrefixSize
	if nameLen > nameBufferSize {
		return nil, fmt.Errorf("slot name length %d exceeds buffer %d", nameLen, nameBufferSize)
	}
	rec.Name = string(data[off : off+int(nameLen)])
	off += nameBufferSize

	copy(rec.Owner[:], data[off:])
	off += domain.IdentitySize

	rec.Active = data[off] == 1
	return rec, nil
}
