// Package apdu encodes and decodes ISO/IEC 7816-4 command and response
// APDUs, including the short- and extended-length Lc/Le encoding rules an
// eMRTD contact/contactless interface actually exercises.
package apdu

import "github.com/andrei-cloud/go-emrtd/pkg/emrtderr"

// Command is a plain-text (unprotected) command APDU.
type Command struct {
	CLA    byte
	INS    byte
	P1     byte
	P2     byte
	Data   []byte
	RxLen  int // expected response length; 0 means no Le field at all.
}

// lcLen reports how many bytes the encoded Lc field occupies: 0 when there
// is no command data, 1 for short-form (len < 256), 3 for extended-form
// ('00' followed by a big-endian uint16).
func (c *Command) lcLen() int {
	switch n := len(c.Data); {
	case n == 0:
		return 0
	case n < 256:
		return 1
	default:
		return 3
	}
}

func (c *Command) appendLc(buf []byte) []byte {
	n := len(c.Data)
	if n == 0 {
		return buf
	}
	if n < 256 {
		return append(buf, byte(n&0xFF))
	}

	return append(buf, 0x00, byte(n>>8), byte(n&0xFF))
}

// leLen reports how many bytes the encoded Le field occupies, per ISO/IEC
// 7816-4 §5.1: 0 when RxLen is 0; 1 byte for RxLen up to 256 (short form,
// even when Lc was extended); 2 bytes for RxLen up to 65536 when Lc was
// extended; otherwise 3 bytes (the extended form's '00' marker byte plus a
// big-endian uint16, used when Lc was short but Le must be extended).
func (c *Command) leLen() int {
	lcExtended := c.lcLen() == 3

	switch {
	case c.RxLen == 0:
		return 0
	case c.RxLen <= 256:
		return 1
	case c.RxLen <= 65536 && lcExtended:
		return 2
	default:
		return 3
	}
}

func (c *Command) appendLe(buf []byte) []byte {
	lcExtended := c.lcLen() == 3

	switch {
	case c.RxLen == 0:
		return buf
	case c.RxLen < 256:
		return append(buf, byte(c.RxLen&0xFF))
	case c.RxLen == 256:
		return append(buf, 0x00)
	case c.RxLen == 65536 && lcExtended:
		return append(buf, 0x00, 0x00)
	case c.RxLen < 65536 && lcExtended:
		v := uint16(c.RxLen & 0xFFFF)
		return append(buf, byte(v>>8), byte(v&0xFF))
	default:
		v := uint16(c.RxLen & 0xFFFF)
		return append(buf, 0x00, byte(v>>8), byte(v&0xFF))
	}
}

// Len returns the total encoded length: header (4) + Lc + data + Le.
func (c *Command) Len() int {
	return 4 + c.lcLen() + len(c.Data) + c.leLen()
}

// Bytes allocates and returns the fully encoded command APDU.
func (c *Command) Bytes() []byte {
	return c.EncodeInto(make([]byte, 0, c.Len()))
}

// LeBytes returns the encoded Le field alone, using the same short/extended
// rule EncodeInto would — callers building a secure-messaging DO'97' need
// this without re-encoding the whole command.
func (c *Command) LeBytes() []byte {
	return c.appendLe(nil)
}

// EncodeInto appends the encoded command APDU to dst and returns the
// extended slice, letting a caller reuse a scratch buffer across repeated
// transceive calls instead of allocating one Command.Bytes() copy each
// time.
func (c *Command) EncodeInto(dst []byte) []byte {
	dst = append(dst, c.CLA, c.INS, c.P1, c.P2)
	dst = c.appendLc(dst)
	dst = append(dst, c.Data...)
	dst = c.appendLe(dst)

	return dst
}

// ParseCommand decodes a raw command APDU back into its header, data, and
// requested response length. ISO/IEC 7816-4 case determination is
// inherently ambiguous without out-of-band knowledge of the command; this
// decodes exactly the short- and extended-form shapes EncodeInto itself
// produces, which is what the simulator needs to play chip against this
// package's own encoder.
func ParseCommand(raw []byte) (*Command, error) {
	if len(raw) < 4 {
		return nil, emrtderr.New(emrtderr.KindAPDU, "command shorter than the 4-byte header")
	}

	cmd := &Command{CLA: raw[0], INS: raw[1], P1: raw[2], P2: raw[3]}
	rest := raw[4:]

	switch {
	case len(rest) == 0:
		return cmd, nil
	case len(rest) == 1:
		cmd.RxLen = leFromShort(rest[0])

		return cmd, nil
	case rest[0] != 0x00:
		lc := int(rest[0])
		if len(rest) < 1+lc {
			return nil, emrtderr.New(emrtderr.KindAPDU, "command data shorter than Lc")
		}

		cmd.Data = rest[1 : 1+lc]

		return parseTrailer(cmd, rest[1+lc:])
	case len(rest) == 3:
		cmd.RxLen = leFromExtended(rest[1:3])

		return cmd, nil
	case len(rest) >= 3:
		lc := int(rest[1])<<8 | int(rest[2])
		if len(rest) < 3+lc {
			return nil, emrtderr.New(emrtderr.KindAPDU, "command data shorter than extended Lc")
		}

		cmd.Data = rest[3 : 3+lc]

		return parseTrailer(cmd, rest[3+lc:])
	default:
		return nil, emrtderr.New(emrtderr.KindAPDU, "malformed command APDU")
	}
}

func parseTrailer(cmd *Command, tail []byte) (*Command, error) {
	switch len(tail) {
	case 0:
		return cmd, nil
	case 1:
		cmd.RxLen = leFromShort(tail[0])
	case 2:
		cmd.RxLen = leFromExtended(tail)
	case 3:
		if tail[0] != 0x00 {
			return nil, emrtderr.New(emrtderr.KindAPDU, "malformed extended Le field")
		}
		cmd.RxLen = leFromExtended(tail[1:3])
	default:
		return nil, emrtderr.New(emrtderr.KindAPDU, "trailing garbage after command data")
	}

	return cmd, nil
}

func leFromShort(b byte) int {
	if b == 0 {
		return 256
	}

	return int(b)
}

func leFromExtended(b []byte) int {
	n := int(b[0])<<8 | int(b[1])
	if n == 0 {
		return 65536
	}

	return n
}
