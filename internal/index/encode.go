package index

import (
	"bytes"
	"encoding/binary"
	"time"
)

func seqKey(seq int) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(seq))
	return k
}

// key = invSec(8) + invNsec(4) + seq(4)
// 时间倒序，同一时间按扫描顺序
func makeDateSeqKey(t time.Time, seq int) []byte {
	buf := make([]byte, 16)
	sec := uint64(t.Unix()) ^ (1 << 63)
	binary.BigEndian.PutUint64(buf[0:8], ^sec)
	binary.BigEndian.PutUint32(buf[8:12], ^uint32(t.Nanosecond()))
	binary.BigEndian.PutUint32(buf[12:16], uint32(seq))
	return buf
}

// key = lang + 0x00 + path + 0x00 + seq(4)
func pathPrefix(lang, path string) []byte {
	buf := make([]byte, 0, len(lang)+len(path)+2)
	buf = append(buf, lang...)
	buf = append(buf, 0x00)
	buf = append(buf, path...)
	buf = append(buf, 0x00)
	return buf
}

func makePathKey(lang, path string, seq int) []byte {
	return append(pathPrefix(lang, path), seqKey(seq)...)
}

func hasPrefix(k, prefix []byte) bool {
	return len(k) == len(prefix)+4 && bytes.HasPrefix(k, prefix)
}
