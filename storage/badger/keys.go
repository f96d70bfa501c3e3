package badger

import (
	"encoding/binary"

	"github.com/poiesic/mailroom/core"
)

// Key prefixes for different data types
const (
	emailRecordPrefix = "emlrec:"
	emailHashPrefix   = "emlhash:"
	emailIDSeq        = "emlseq"
)

// makeEmailKey generates a key for an email record by ID.
// Format: prefix + big-endian ID, so iteration follows insertion order.
func makeEmailKey(id core.ID) []byte {
	return appendID([]byte(emailRecordPrefix), id)
}

// makeEmailHashKey generates a key for the content hash index.
// Format: prefix + big-endian hash
func makeEmailHashKey(hash core.ID) []byte {
	return appendID([]byte(emailHashPrefix), hash)
}

func appendID(prefix []byte, id core.ID) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
