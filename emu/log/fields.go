package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

type fieldKind uint8

const (
	kindBool fieldKind = iota + 1
	kindString
	kindHex8
	kindHex16
	kindHex32
	kindInt
	kindUint
	kindError
	kindDuration
	kindStringer
	kindBlob
)

// ZField is a typed log field. The value is only formatted when the entry
// is written.
type ZField struct {
	Key  string
	kind fieldKind
	num  uint64 // bool, integers and durations
	str  string
	val  any // error, fmt.Stringer or []byte
}

func (f *ZField) Value() string {
	switch f.kind {
	case kindBool:
		return strconv.FormatBool(f.num != 0)
	case kindString:
		return f.str
	case kindHex8:
		return fmt.Sprintf("%02x", f.num)
	case kindHex16:
		return fmt.Sprintf("%04x", f.num)
	case kindHex32:
		return fmt.Sprintf("%08x", f.num)
	case kindInt:
		return strconv.FormatInt(int64(f.num), 10)
	case kindUint:
		return strconv.FormatUint(f.num, 10)
	case kindDuration:
		return time.Duration(f.num).String()
	case kindError:
		if f.val == nil {
			return "<nil>"
		}
		return f.val.(error).Error()
	case kindStringer:
		return f.val.(fmt.Stringer).String()
	case kindBlob:
		return hex.Dump(f.val.([]byte))
	}
	return ""
}
