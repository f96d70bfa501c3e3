package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS is the MUS serializer for ID values.
var IDMUS = idMUS{}

// EmailMUS is the MUS serializer for Email values.
var EmailMUS = emailMUS{}

// IndexedEmailMUS is the MUS serializer for IndexedEmail values.
// Timestamps are stored as Unix microseconds.
var IndexedEmailMUS = indexedEmailMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

type emailMUS struct{}

func (emailMUS) Marshal(v Email, bs []byte) (n int) {
	n = ord.String.Marshal(v.Date, bs)
	n += ord.String.Marshal(v.Subject, bs[n:])
	n += ord.String.Marshal(v.Sender, bs[n:])
	n += ord.String.Marshal(v.Body, bs[n:])
	return
}

func (emailMUS) Unmarshal(bs []byte) (v Email, n int, err error) {
	fields := []*string{&v.Date, &v.Subject, &v.Sender, &v.Body}
	for _, field := range fields {
		var n1 int
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (emailMUS) Size(v Email) (size int) {
	return ord.String.Size(v.Date) +
		ord.String.Size(v.Subject) +
		ord.String.Size(v.Sender) +
		ord.String.Size(v.Body)
}

type indexedEmailMUS struct{}

func (indexedEmailMUS) Marshal(v IndexedEmail, bs []byte) (n int) {
	n = IDMUS.Marshal(v.ID, bs)
	n += EmailMUS.Marshal(v.Email, bs[n:])
	n += varint.Uint64.Marshal(uint64(len(v.Vector)), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += ord.String.Marshal(v.Source, bs[n:])
	n += IDMUS.Marshal(v.Hash, bs[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	return
}

func (indexedEmailMUS) Unmarshal(bs []byte) (v IndexedEmail, n int, err error) {
	var n1 int
	v.ID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Email, n1, err = EmailMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	length, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	// Each float32 occupies 4 bytes; reject lengths the buffer cannot hold
	if length > uint64(len(bs)-n)/4 {
		err = fmt.Errorf("%w: vector length %d exceeds buffer", ErrMalformedRecord, length)
		return
	}
	if length > 0 {
		v.Vector = make([]float32, length)
		for i := range v.Vector {
			v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Hash, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (indexedEmailMUS) Size(v IndexedEmail) (size int) {
	size = IDMUS.Size(v.ID)
	size += EmailMUS.Size(v.Email)
	size += varint.Uint64.Size(uint64(len(v.Vector)))
	for _, f := range v.Vector {
		size += raw.Float32.Size(f)
	}
	size += ord.String.Size(v.Source)
	size += IDMUS.Size(v.Hash)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	return
}
