package files

import (
	"context"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/emrtderr"
	"github.com/andrei-cloud/go-emrtd/pkg/sm"
	"github.com/rs/zerolog/log"
)

const (
	headerLen = 4   // SELECT + first READ BINARY fetches the TLV tag+length header
	maxRead   = 100 // largest chunk size many chips accept per READ BINARY
)

// Transport sends one raw, secure-messaging-protected command APDU to the
// chip and returns its raw protected response, trailer included.
type Transport interface {
	Transmit(ctx context.Context, protectedAPDU []byte) ([]byte, error)
}

// ReadFile selects file by its short identifier and reads its full contents
// back in headerLen/maxRead-sized chunks, per the staged READ BINARY walk
// ICAO Doc 9303 Part 10 recommends for constrained readers.
func ReadFile(ctx context.Context, t Transport, session *sm.Session, file File) ([]byte, error) {
	if err := selectFile(ctx, t, session, file.FileID); err != nil {
		return nil, err
	}

	header, err := readBinary(ctx, t, session, headerLen, 0)
	if err != nil {
		return nil, err
	}
	if len(header) != headerLen {
		return nil, emrtderr.New(emrtderr.KindFiles, "short header read from "+file.Name)
	}

	length, err := structureLength(header)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, length)
	data = append(data, header...)

	remaining := length - headerLen
	offset := headerLen
	for remaining > 0 {
		chunk := remaining
		if chunk > maxRead {
			chunk = maxRead
		}

		got, err := readBinary(ctx, t, session, chunk, offset)
		if err != nil {
			return nil, err
		}
		if len(got) != chunk {
			return nil, emrtderr.New(emrtderr.KindFiles, "short chunk read from "+file.Name)
		}

		data = append(data, got...)
		remaining -= chunk
		offset += chunk
	}

	log.Debug().Str("file", file.Name).Int("bytes", len(data)).Msg("read elementary file")

	return data, nil
}

func selectFile(ctx context.Context, t Transport, session *sm.Session, fileID FileID) error {
	cmd := &apdu.Command{
		CLA:  0x00,
		INS:  0xA4,
		P1:   0x02,
		P2:   0x0C,
		Data: []byte{byte(fileID >> 8), byte(fileID)},
	}

	_, err := transceive(ctx, t, session, cmd)

	return err
}

func readBinaryCommand(rxLen, offset int) *apdu.Command {
	off := uint16(offset) //nolint:gosec // offsets stay within file-length bounds

	return &apdu.Command{
		CLA:   0x00,
		INS:   0xB0,
		P1:    byte(off >> 8),
		P2:    byte(off),
		RxLen: rxLen,
	}
}

func readBinary(ctx context.Context, t Transport, session *sm.Session, rxLen, offset int) ([]byte, error) {
	res, err := transceive(ctx, t, session, readBinaryCommand(rxLen, offset))
	if err != nil {
		return nil, err
	}

	return res.Data, nil
}

func transceive(ctx context.Context, t Transport, session *sm.Session, cmd *apdu.Command) (apdu.Response, error) {
	protected, err := session.Protect(cmd)
	if err != nil {
		return apdu.Response{}, err
	}

	raw, err := t.Transmit(ctx, protected.Bytes())
	if err != nil {
		return apdu.Response{}, emrtderr.Wrap(emrtderr.KindTransport, "command transmission failed", err)
	}

	res, err := session.Unprotect(raw)
	if err != nil {
		return apdu.Response{}, err
	}
	if !res.Trailer.OK() {
		return apdu.Response{}, emrtderr.New(emrtderr.KindFiles, "chip returned "+res.Trailer.String())
	}

	return res, nil
}

// structureLength decodes the BER-TLV length that follows a file's leading
// tag byte and returns the TOTAL structure size (tag + length octets +
// value), mirroring the header peek a reader performs before it knows a
// file's full size: total = parsed_length + header_bytes_consumed.
func structureLength(header []byte) (int, error) {
	x := header[1]
	if x&0x80 == 0 {
		return int(x) + 2, nil // 1 tag byte + 1 short-form length byte
	}

	nBytes := int(x & 0x7F)
	if nBytes > headerLen-2 {
		return 0, emrtderr.New(emrtderr.KindFiles, "invalid file length encoding")
	}

	length := 0
	for n := 0; n < nBytes; n++ {
		length = length<<8 | int(header[2+n])
	}

	return length + 2 + nBytes, nil
}
