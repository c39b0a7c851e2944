// Package cachekey turns the ordered, normalised inputs of an operation into
// a single fixed-size cache key.
package cachekey

import (
	"encoding/binary"
	"fmt"
	"hash"
	"strconv"

	"github.com/opencontainers/go-digest"
)

// Key is an opaque SHA-256 digest of an ordered list of values.
type Key = digest.Digest

const (
	tagNil byte = iota
	tagString
	tagInt
	tagUint
	tagBool
	tagStringer
	tagOther
)

// Build hashes parts in order. Every part is framed with a type tag and its
// length, so reordering, omitting or re-splitting values yields a new key.
func Build(parts ...any) Key {
	d := digest.Canonical.Digester()
	h := d.Hash()
	for _, p := range parts {
		writePart(h, p)
	}
	return d.Digest()
}

func writePart(h hash.Hash, p any) {
	switch v := p.(type) {
	case nil:
		writeFrame(h, tagNil, nil)
	case string:
		writeFrame(h, tagString, []byte(v))
	case int:
		writeFrame(h, tagInt, strconv.AppendInt(nil, int64(v), 10))
	case int32:
		writeFrame(h, tagInt, strconv.AppendInt(nil, int64(v), 10))
	case int64:
		writeFrame(h, tagInt, strconv.AppendInt(nil, v, 10))
	case uint:
		writeFrame(h, tagUint, strconv.AppendUint(nil, uint64(v), 10))
	case uint64:
		writeFrame(h, tagUint, strconv.AppendUint(nil, v, 10))
	case bool:
		writeFrame(h, tagBool, strconv.AppendBool(nil, v))
	case fmt.Stringer:
		writeFrame(h, tagStringer, []byte(v.String()))
	default:
		writeFrame(h, tagOther, []byte(fmt.Sprintf("%#v", v)))
	}
}

func writeFrame(h hash.Hash, tag byte, payload []byte) {
	var hdr [1 + binary.MaxVarintLen64]byte
	hdr[0] = tag
	n := binary.PutUvarint(hdr[1:], uint64(len(payload)))
	h.Write(hdr[:1+n])
	h.Write(payload)
}
