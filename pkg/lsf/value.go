package lsf

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

// matrixDims gives (rows, cols) for the matrix attribute types.
var matrixDims = map[doctree.AttrType][2]int{
	doctree.AttrMat2:   {2, 2},
	doctree.AttrMat3:   {3, 3},
	doctree.AttrMat3x4: {3, 4},
	doctree.AttrMat4x3: {4, 3},
	doctree.AttrMat4:   {4, 4},
}

var vectorDims = map[doctree.AttrType]int{
	doctree.AttrIVec2: 2, doctree.AttrIVec3: 3, doctree.AttrIVec4: 4,
	doctree.AttrVec2: 2, doctree.AttrVec3: 3, doctree.AttrVec4: 4,
}

// decodedValue is what decodeValue produces: a textual Value plus, for
// TranslatedString only, a Handle and Version.
type decodedValue struct {
	Value   string
	Handle  string
	Version int
}

// decodeValue turns a raw attribute payload into its textual form, per the
// type dispatch spec.md §4.2 "Type decoding" describes. TranslatedString
// (type id 28) uses the special (handle, version, value) decoder.
func decodeValue(typeID uint8, blob []byte) (decodedValue, error) {
	t := doctree.AttrType(typeID)

	if t == doctree.AttrTranslatedString {
		return decodeTranslatedString(blob)
	}

	switch t {
	case doctree.AttrNone:
		return decodedValue{}, nil
	case doctree.AttrByte, doctree.AttrInt8:
		if len(blob) < 1 {
			return decodedValue{}, fmt.Errorf("lsf: byte value too short")
		}
		return decodedValue{Value: strconv.Itoa(int(int8(blob[0])))}, nil
	case doctree.AttrShort:
		return decodedValue{Value: strconv.Itoa(int(int16(binary.LittleEndian.Uint16(blob))))}, nil
	case doctree.AttrUShort:
		return decodedValue{Value: strconv.Itoa(int(binary.LittleEndian.Uint16(blob)))}, nil
	case doctree.AttrInt:
		return decodedValue{Value: strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(blob))), 10)}, nil
	case doctree.AttrUInt:
		return decodedValue{Value: strconv.FormatUint(uint64(binary.LittleEndian.Uint32(blob)), 10)}, nil
	case doctree.AttrLong, doctree.AttrInt64:
		return decodedValue{Value: strconv.FormatInt(int64(binary.LittleEndian.Uint64(blob)), 10)}, nil
	case doctree.AttrULongLong:
		return decodedValue{Value: strconv.FormatUint(binary.LittleEndian.Uint64(blob), 10)}, nil
	case doctree.AttrFloat:
		f := math.Float32frombits(binary.LittleEndian.Uint32(blob))
		return decodedValue{Value: strconv.FormatFloat(float64(f), 'g', -1, 32)}, nil
	case doctree.AttrDouble:
		f := math.Float64frombits(binary.LittleEndian.Uint64(blob))
		return decodedValue{Value: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	case doctree.AttrBool:
		if len(blob) < 1 {
			return decodedValue{}, fmt.Errorf("lsf: bool value too short")
		}
		if blob[0] != 0 {
			return decodedValue{Value: "True"}, nil
		}
		return decodedValue{Value: "False"}, nil
	case doctree.AttrUUID:
		if len(blob) != 16 {
			return decodedValue{}, fmt.Errorf("lsf: uuid value must be 16 bytes, got %d", len(blob))
		}
		id, err := uuid.FromBytes(reorderGUID(blob))
		if err != nil {
			return decodedValue{}, fmt.Errorf("lsf: decoding uuid: %w", err)
		}
		return decodedValue{Value: id.String()}, nil
	case doctree.AttrScratchBuffer:
		return decodedValue{Value: fmt.Sprintf("%x", blob)}, nil
	case doctree.AttrString, doctree.AttrPath, doctree.AttrFixedString, doctree.AttrLSString:
		return decodedValue{Value: trimNull(string(blob))}, nil
	case doctree.AttrWString, doctree.AttrLSWString:
		return decodedValue{Value: decodeUTF16(blob)}, nil
	}

	if dims, ok := matrixDims[t]; ok {
		return decodedValue{Value: decodeFloatList(blob, dims[0]*dims[1])}, nil
	}
	if n, ok := vectorDims[t]; ok {
		if t == doctree.AttrIVec2 || t == doctree.AttrIVec3 || t == doctree.AttrIVec4 {
			return decodedValue{Value: decodeIntList(blob, n)}, nil
		}
		return decodedValue{Value: decodeFloatList(blob, n)}, nil
	}

	return decodedValue{}, fmt.Errorf("lsf: unknown attribute type id %d", typeID)
}

func decodeTranslatedString(blob []byte) (decodedValue, error) {
	// On-disk layout: u16 version, u32-length-prefixed inline value, then
	// u32-length-prefixed ASCII handle. The value length is 0 when no inline
	// text accompanies the handle (per spec.md §3.1, Value may be empty when
	// text is supplied externally via LOCA).
	if len(blob) < 6 {
		return decodedValue{}, fmt.Errorf("lsf: translated string value too short")
	}
	version := int(binary.LittleEndian.Uint16(blob[0:2]))
	rest := blob[2:]

	valueLen := int(binary.LittleEndian.Uint32(rest[0:4]))
	rest = rest[4:]
	if len(rest) < valueLen {
		return decodedValue{}, fmt.Errorf("lsf: translated string value length exceeds buffer")
	}
	value := string(rest[:valueLen])
	rest = rest[valueLen:]

	if len(rest) < 4 {
		return decodedValue{}, fmt.Errorf("lsf: translated string missing handle length")
	}
	handleLen := int(binary.LittleEndian.Uint32(rest[0:4]))
	rest = rest[4:]
	if len(rest) < handleLen {
		return decodedValue{}, fmt.Errorf("lsf: translated string handle length exceeds buffer")
	}
	handle := string(rest[:handleLen])

	return decodedValue{Value: value, Handle: handle, Version: version}, nil
}

func encodeTranslatedString(value, handle string, version int) []byte {
	var buf bytes.Buffer
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], uint16(version))
	buf.Write(u16[:])

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(value)))
	buf.Write(u32[:])
	buf.WriteString(value)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(handle)))
	buf.Write(u32[:])
	buf.WriteString(handle)

	return buf.Bytes()
}

func encodeValue(t doctree.AttrType, value string) ([]byte, error) {
	switch t {
	case doctree.AttrNone:
		return nil, nil
	case doctree.AttrByte, doctree.AttrInt8:
		n, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return nil, err
		}
		return []byte{byte(int8(n))}, nil
	case doctree.AttrShort, doctree.AttrUShort:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return nil, err
		}
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		return b[:], nil
	case doctree.AttrInt, doctree.AttrUInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		return b[:], nil
	case doctree.AttrLong, doctree.AttrInt64, doctree.AttrULongLong:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			// Some Long/Int64 values are emitted as signed decimal.
			s, serr := strconv.ParseInt(value, 10, 64)
			if serr != nil {
				return nil, err
			}
			n = uint64(s)
		}
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], n)
		return b[:], nil
	case doctree.AttrFloat:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, err
		}
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(f)))
		return b[:], nil
	case doctree.AttrDouble:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		return b[:], nil
	case doctree.AttrBool:
		return []byte{boolByte(value)}, nil
	case doctree.AttrUUID:
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		b := id[:]
		return reorderGUID(b), nil
	case doctree.AttrScratchBuffer:
		return decodeHex(value)
	case doctree.AttrString, doctree.AttrPath, doctree.AttrFixedString, doctree.AttrLSString:
		return append([]byte(value), 0), nil
	case doctree.AttrWString, doctree.AttrLSWString:
		return encodeUTF16(value), nil
	}

	if dims, ok := matrixDims[t]; ok {
		return encodeFloatList(value, dims[0]*dims[1])
	}
	if n, ok := vectorDims[t]; ok {
		if t == doctree.AttrIVec2 || t == doctree.AttrIVec3 || t == doctree.AttrIVec4 {
			return encodeIntList(value, n)
		}
		return encodeFloatList(value, n)
	}

	return nil, fmt.Errorf("lsf: unknown attribute type %v", t)
}

func boolByte(value string) byte {
	if value == "True" || value == "true" || value == "1" {
		return 1
	}
	return 0
}

func trimNull(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

func decodeUTF16(blob []byte) string {
	u16s := make([]uint16, len(blob)/2)
	for i := range u16s {
		u16s[i] = binary.LittleEndian.Uint16(blob[i*2:])
	}
	// Strip a trailing NUL code unit if present.
	for len(u16s) > 0 && u16s[len(u16s)-1] == 0 {
		u16s = u16s[:len(u16s)-1]
	}
	return string(utf16.Decode(u16s))
}

func encodeUTF16(s string) []byte {
	u16s := utf16.Encode([]rune(s))
	buf := make([]byte, (len(u16s)+1)*2)
	for i, u := range u16s {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

func decodeFloatList(blob []byte, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		f := math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}

func encodeFloatList(value string, n int) ([]byte, error) {
	fields := strings.Fields(value)
	if len(fields) != n {
		return nil, fmt.Errorf("lsf: expected %d components, got %d", n, len(fields))
	}
	buf := make([]byte, n*4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	return buf, nil
}

func decodeIntList(blob []byte, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		v := int32(binary.LittleEndian.Uint32(blob[i*4:]))
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, " ")
}

func encodeIntList(value string, n int) ([]byte, error) {
	fields := strings.Fields(value)
	if len(fields) != n {
		return nil, fmt.Errorf("lsf: expected %d components, got %d", n, len(fields))
	}
	buf := make([]byte, n*4)
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(v)))
	}
	return buf, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// reorderGUID swaps the byte order of a UUID's first three fields between
// the wire's little-endian-per-field layout and google/uuid's big-endian
// canonical byte layout (both directions use the same swap).
func reorderGUID(b []byte) []byte {
	out := make([]byte, 16)
	copy(out, b)
	out[0], out[1], out[2], out[3] = out[3], out[2], out[1], out[0]
	out[4], out[5] = out[5], out[4]
	out[6], out[7] = out[7], out[6]
	return out
}
