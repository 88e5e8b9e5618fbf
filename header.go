package hashbin

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	hasherrors "github.com/tamirms/hashbin/errors"
)

const (
	// magic number for binary configurations
	// "HBIN" in little-endian
	magic = uint32(0x4E494248)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the size of the fixed part of the encoding (36 bytes)
	headerSize = 36

	// footerSize is the size of the checksum footer (8 bytes)
	footerSize = 8

	// maxMaskSize bounds the mask length accepted by the decoder.
	maxMaskSize = 1 << 20
)

// Header flags
const (
	flagStrongHash = 1 << 0
	flagMask       = 1 << 1
)

// Mask kinds as stored on disk. 0 means no mask.
const (
	maskKindNone   = 0
	maskKindString = 1
	maskKindInt    = 2
)

// header is the fixed 36-byte prefix of a binary configuration.
//
// Layout:
//
//	Offset  Size  Field      Type
//	0       4     Magic      0x4E494248 ("HBIN")
//	4       2     Version    0x0001
//	6       1     Flags      bit0 strong hash, bit1 mask present
//	7       1     MaskKind   0=none 1=string 2=int
//	8       8     NumBins    uint64_le
//	16      8     Salt0      uint64_le
//	24      8     Salt1      uint64_le
//	32      4     MaskLen    uint32_le
//
// The header is followed by MaskLen bytes of mask text (UTF-8 string or
// canonical decimal integer) and an 8-byte footer holding the xxHash64 of
// everything before it.
type header struct {
	Magic    uint32
	Version  uint16
	Flags    uint8
	MaskKind uint8
	NumBins  uint64
	Salt     [2]uint64
	MaskLen  uint32
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = h.Flags
	buf[7] = h.MaskKind
	binary.LittleEndian.PutUint64(buf[8:16], h.NumBins)
	binary.LittleEndian.PutUint64(buf[16:24], h.Salt[0])
	binary.LittleEndian.PutUint64(buf[24:32], h.Salt[1])
	binary.LittleEndian.PutUint32(buf[32:36], h.MaskLen)
}

// decodeHeader parses a 36-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, hasherrors.ErrTruncatedConfig
	}

	h := &header{
		Magic:    binary.LittleEndian.Uint32(buf[0:4]),
		Version:  binary.LittleEndian.Uint16(buf[4:6]),
		Flags:    buf[6],
		MaskKind: buf[7],
		NumBins:  binary.LittleEndian.Uint64(buf[8:16]),
		Salt: [2]uint64{
			binary.LittleEndian.Uint64(buf[16:24]),
			binary.LittleEndian.Uint64(buf[24:32]),
		},
		MaskLen: binary.LittleEndian.Uint32(buf[32:36]),
	}

	if h.Magic != magic {
		return nil, hasherrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, hasherrors.ErrInvalidVersion
	}
	hasMask := h.Flags&flagMask != 0
	if hasMask != (h.MaskKind != maskKindNone) || h.MaskKind > maskKindInt {
		return nil, fmt.Errorf("%w: mask flag and kind disagree", hasherrors.ErrInvalidConfig)
	}
	if !hasMask && h.MaskLen != 0 {
		return nil, fmt.Errorf("%w: mask bytes without mask", hasherrors.ErrInvalidConfig)
	}
	if h.MaskLen > maxMaskSize {
		return nil, fmt.Errorf("%w: mask length %d", hasherrors.ErrInvalidConfig, h.MaskLen)
	}
	return h, nil
}

// MarshalBinary encodes c with a trailing xxHash64 checksum.
func (c Config) MarshalBinary() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	hdr := header{
		Magic:   magic,
		Version: version,
		NumBins: uint64(c.NumBins),
	}
	if c.Salt != nil {
		key, _ := keyFromSalt(c.Salt) // validated above
		hdr.Flags |= flagStrongHash
		hdr.Salt = key
	}
	var mask []byte
	if c.MaskValue != nil {
		hdr.Flags |= flagMask
		hdr.MaskKind = maskKindString
		if c.MaskValue.IsInt() {
			hdr.MaskKind = maskKindInt
		}
		mask = c.MaskValue.Bytes()
		if len(mask) > maxMaskSize {
			return nil, fmt.Errorf("%w: mask length %d", hasherrors.ErrInvalidMask, len(mask))
		}
		hdr.MaskLen = uint32(len(mask))
	}

	buf := make([]byte, headerSize+len(mask)+footerSize)
	hdr.encodeTo(buf)
	copy(buf[headerSize:], mask)
	body := buf[:headerSize+len(mask)]
	binary.LittleEndian.PutUint64(buf[len(body):], xxhash.Sum64(body))
	return buf, nil
}

// UnmarshalBinary decodes a configuration written by MarshalBinary and
// verifies its checksum.
func (c *Config) UnmarshalBinary(data []byte) error {
	hdr, err := decodeHeader(data)
	if err != nil {
		return err
	}
	bodyLen := headerSize + int(hdr.MaskLen)
	if len(data) < bodyLen+footerSize {
		return hasherrors.ErrTruncatedConfig
	}
	if len(data) > bodyLen+footerSize {
		return fmt.Errorf("%w: %d trailing bytes", hasherrors.ErrInvalidConfig, len(data)-bodyLen-footerSize)
	}
	if xxhash.Sum64(data[:bodyLen]) != binary.LittleEndian.Uint64(data[bodyLen:]) {
		return hasherrors.ErrChecksumFailed
	}
	if hdr.NumBins == 0 || hdr.NumBins > 1<<32-1 {
		return fmt.Errorf("%w: got %d", hasherrors.ErrInvalidNumBins, hdr.NumBins)
	}

	out := Config{NumBins: int(hdr.NumBins)}
	if hdr.Flags&flagStrongHash != 0 {
		out.Salt = Salt{hdr.Salt[0], hdr.Salt[1]}
	}
	mask := data[headerSize:bodyLen]
	switch hdr.MaskKind {
	case maskKindString:
		m := String(string(mask))
		out.MaskValue = &m
	case maskKindInt:
		i, err := strconv.ParseInt(string(mask), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: integer mask %q", hasherrors.ErrInvalidConfig, mask)
		}
		m := Int(i)
		out.MaskValue = &m
	}
	*c = out
	return nil
}
