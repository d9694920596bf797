/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package utils

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Byte order of nspdata files
var ByteOrder = binary.LittleEndian

// Writes value to in-memory buffer, bytes.Buffer or bytebufferpool.ByteBuffer.
//
// # Panics:
//   - if any buffer write error
func SafeWriteBuf(b io.Writer, data any) {
	var err error
	switch v := data.(type) {
	case nil:
	case []byte:
		_, err = b.Write(v)
	case string:
		_, err = io.WriteString(b, v)
	default:
		err = binary.Write(b, ByteOrder, v)
	}
	if err != nil {
		// notest: Difficult to get an error when writing to memory buffer
		panic(err)
	}
}

// Writes NUL-terminated string into a buffer
func WriteCString(buf io.Writer, str string) {
	SafeWriteBuf(buf, str)
	SafeWriteBuf(buf, []byte{0})
}

// Reads NUL-terminated string. String may not be longer than maxLen bytes
func ReadCString(r *bufio.Reader, maxLen int) (string, error) {
	var b []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("error read string: %w", err)
		}
		if c == 0 {
			return string(b), nil
		}
		if len(b) >= maxLen {
			return "", fmt.Errorf("error read string: not terminated within %d bytes", maxLen)
		}
		b = append(b, c)
	}
}

// Reads fixed size value
func Read(r io.Reader, data any) error {
	return binary.Read(r, ByteOrder, data)
}

// SeekBuffer is an in-memory io.WriteSeeker
type SeekBuffer struct {
	b   []byte
	pos int
}

func (s *SeekBuffer) Write(p []byte) (int, error) {
	if end := s.pos + len(p); end > len(s.b) {
		s.b = append(s.b, make([]byte, end-len(s.b))...)
	}
	n := copy(s.b[s.pos:], p)
	s.pos += n
	return n, nil
}

func (s *SeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(s.pos) + offset
	case io.SeekEnd:
		abs = int64(len(s.b)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative position %d", abs)
	}
	s.pos = int(abs)
	return abs, nil
}

// Returns written bytes
func (s *SeekBuffer) Bytes() []byte { return s.b }
