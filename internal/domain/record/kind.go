package record

import "crypto/sha256"

// Kind distinguishes the record namespaces served by the registry. Entities
// and tasks share one implementation; a Kind selects the address namespace
// and the slot discriminator so the two keyspaces can never collide.
type Kind string

const (
	KindEntity Kind = "entity"
	KindTask   Kind = "task"
)

// Kinds lists every registered kind in routing order.
func Kinds() []Kind {
	return []Kind{KindEntity, KindTask}
}

// IsValid reports whether k is a registered kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindEntity, KindTask:
		return true
	}
	return false
}

// Namespace returns the seed prefix mixed into address derivation.
func (k Kind) Namespace() []byte {
	return []byte(string(k) + "_seed")
}

// Discriminator returns the 8-byte tag written at the start of every slot
// of this kind: the first 8 bytes of SHA-256 over "record:" + kind name.
// A decoder rejects slots whose tag does not match its kind.
func (k Kind) Discriminator() [DiscriminatorSize]byte {
	sum := sha256.Sum256([]byte("record:" + string(k)))
	var d [DiscriminatorSize]byte
	copy(d[:], sum[:DiscriminatorSize])
	return d
}
