package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry under construction. A nil *EntryZ is valid and all
// its methods are no-ops, so disabled log statements cost a single branch:
//
//	log.ModPPU.DebugZ("write ctrl").Hex8("val", val).End()
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func newEntryZ(mod Module, lvl Level, msg string) *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.mod, e.lvl, e.msg, e.zfidx = mod, lvl, msg, 0
	return e
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e.zfidx < maxZFields {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

func (e *EntryZ) Bool(key string, b bool) *EntryZ {
	var n uint64
	if b {
		n = 1
	}
	return e.num(key, kindBool, n)
}

func (e *EntryZ) Hex8(key string, v uint8) *EntryZ    { return e.num(key, kindHex8, uint64(v)) }
func (e *EntryZ) Hex16(key string, v uint16) *EntryZ  { return e.num(key, kindHex16, uint64(v)) }
func (e *EntryZ) Hex32(key string, v uint32) *EntryZ  { return e.num(key, kindHex32, uint64(v)) }
func (e *EntryZ) Int(key string, v int) *EntryZ       { return e.num(key, kindInt, uint64(v)) }
func (e *EntryZ) Int64(key string, v int64) *EntryZ   { return e.num(key, kindInt, uint64(v)) }
func (e *EntryZ) Uint(key string, v uint64) *EntryZ   { return e.num(key, kindUint, v) }
func (e *EntryZ) Error(key string, err error) *EntryZ { return e.other(key, kindError, err) }
func (e *EntryZ) Blob(key string, b []byte) *EntryZ   { return e.other(key, kindBlob, b) }

func (e *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return e.num(key, kindDuration, uint64(d))
}

func (e *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return e.other(key, kindStringer, s)
}

func (e *EntryZ) String(key, s string) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Key: key, kind: kindString, str: s})
}

func (e *EntryZ) num(key string, kind fieldKind, n uint64) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Key: key, kind: kind, num: n})
}

func (e *EntryZ) other(key string, kind fieldKind, v any) *EntryZ {
	if e == nil {
		return nil
	}
	return e.add(ZField{Key: key, kind: kind, val: v})
}

// End writes the entry and releases it. Fatal and panic levels terminate
// the program the way logrus does.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	fields := make(logrus.Fields, e.zfidx+1)
	fields["_mod"] = e.mod.String()
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	lvl, msg := e.lvl, e.msg
	entryPool.Put(e)

	entry := logger.WithFields(fields)
	switch lvl {
	case PanicLevel:
		entry.Panic(msg)
	case FatalLevel:
		entry.Fatal(msg)
	case ErrorLevel:
		entry.Error(msg)
	case WarnLevel:
		entry.Warn(msg)
	case InfoLevel:
		entry.Info(msg)
	default:
		entry.Debug(msg)
	}
}
