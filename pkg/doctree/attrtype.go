package doctree

import "fmt"

// AttrType is the closed enumeration of scalar/struct attribute types
// spec.md §3.1/§9 describes. The numeric values match the type id packed
// into the low 6 bits of an LSF attribute record's type_and_length word
// (spec.md §3.2), so this enum doubles as the wire encoding.
type AttrType uint8

const (
	AttrNone AttrType = iota
	AttrByte
	AttrShort
	AttrUShort
	AttrInt
	AttrUInt
	AttrFloat
	AttrDouble
	AttrIVec2
	AttrIVec3
	AttrIVec4
	AttrVec2
	AttrVec3
	AttrVec4
	AttrMat2
	AttrMat3
	AttrMat3x4
	AttrMat4x3
	AttrMat4
	AttrBool
	AttrString
	AttrPath
	AttrFixedString
	AttrLSString
	AttrULongLong
	AttrScratchBuffer
	AttrLong
	AttrInt8
	AttrTranslatedString // id 28, per spec.md §4.2
	AttrWString
	AttrLSWString
	AttrUUID
	AttrInt64
)

var attrTypeNames = [...]string{
	"None", "Byte", "Short", "UShort", "Int", "UInt", "Float", "Double",
	"IVec2", "IVec3", "IVec4", "Vec2", "Vec3", "Vec4",
	"Mat2", "Mat3", "Mat3x4", "Mat4x3", "Mat4",
	"Bool", "String", "Path", "FixedString", "LSString", "ULongLong",
	"ScratchBuffer", "Long", "Int8", "TranslatedString", "WString", "LSWString", "UUID", "Int64",
}

// String returns the canonical LSX/LSJ type name for t.
func (t AttrType) String() string {
	if int(t) < len(attrTypeNames) {
		return attrTypeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// ParseAttrType resolves a textual type name (as it appears in an LSX
// <attribute type="..."/> or LSJ "type" field) back to its AttrType.
func ParseAttrType(name string) (AttrType, error) {
	for i, n := range attrTypeNames {
		if n == name {
			return AttrType(i), nil
		}
	}
	return AttrNone, fmt.Errorf("doctree: unknown attribute type %q", name)
}

// IsVectorOrMatrix reports whether t's Value is a whitespace-separated list
// of scalar components rather than a single scalar/string value.
func (t AttrType) IsVectorOrMatrix() bool {
	switch t {
	case AttrIVec2, AttrIVec3, AttrIVec4, AttrVec2, AttrVec3, AttrVec4,
		AttrMat2, AttrMat3, AttrMat3x4, AttrMat4x3, AttrMat4:
		return true
	}
	return false
}
