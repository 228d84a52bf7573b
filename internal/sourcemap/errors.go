package sourcemap

import "fmt"

// UnsupportedVersionError reports a document whose "version" field is not 3.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("sourcemap: unsupported version %d", e.Version)
}

// BadSegmentSizeError reports a mappings segment with an invalid number of
// VLQ values. Valid sizes are 1, 4 and 5. Size 0 also stands in for a delta
// that drove a position below zero.
type BadSegmentSizeError struct {
	Size uint32
}

func (e *BadSegmentSizeError) Error() string {
	return fmt.Sprintf("sourcemap: invalid segment size %d", e.Size)
}

// BadSourceReferenceError reports a source id outside the sources table.
// ID carries the computed (post-delta) value, which can be negative.
type BadSourceReferenceError struct {
	ID int64
}

func (e *BadSourceReferenceError) Error() string {
	return fmt.Sprintf("sourcemap: source reference %d out of range", e.ID)
}

// BadNameReferenceError reports a name id outside the names table.
// ID carries the computed (post-delta) value, which can be negative.
type BadNameReferenceError struct {
	ID int64
}

func (e *BadNameReferenceError) Error() string {
	return fmt.Sprintf("sourcemap: name reference %d out of range", e.ID)
}
