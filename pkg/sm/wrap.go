package sm

import (
	"encoding/binary"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/andrei-cloud/go-emrtd/pkg/emrtderr"
)

// protect implements Doc 9303 Part 11 §9.8.3's command protection steps:
// mask CLA to 0x0C, build DO'87'/DO'85' over the (padded, encrypted) data
// and DO'97' over Le, MAC the concatenation under the incremented SSC, and
// assemble the resulting DO'8E' into the protected command.
func protect(cmd *apdu.Command, ksEnc, ksMac []byte, ssc *uint64) (*apdu.Command, error) {
	header := &apdu.Command{CLA: 0x0C, INS: cmd.INS, P1: cmd.P1, P2: cmd.P2}
	cmdHeader := crypto.Pad(header.Bytes())

	var tlvLe []byte
	if le := cmd.LeBytes(); len(le) > 0 {
		tlvLe = encodeTLV(TagLe, le)
	}

	var tlvData []byte
	if len(cmd.Data) > 0 {
		ciphertext, err := crypto.TDESEncryptPad(ksEnc, cmd.Data)
		if err != nil {
			return nil, emrtderr.Wrap(emrtderr.KindCrypto, "failed to encrypt command data", err)
		}

		if cmd.INS%2 == 0 {
			value := append([]byte{paddingIndicator}, ciphertext...)
			tlvData = encodeTLV(TagPaddedData, value)
		} else {
			tlvData = encodeTLV(TagUnpaddedData, ciphertext)
		}
	}

	m := make([]byte, 0, len(cmdHeader)+len(tlvData)+len(tlvLe))
	m = append(m, cmdHeader...)
	m = append(m, tlvData...)
	m = append(m, tlvLe...)

	*ssc++
	n := make([]byte, 0, 8+len(m))
	n = binary.BigEndian.AppendUint64(n, *ssc)
	n = append(n, m...)

	cc, err := crypto.RetailMAC(ksMac, n)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "failed to MAC protected command", err)
	}
	tlvMAC := encodeTLV(TagMAC, cc)

	protectedData := make([]byte, 0, len(tlvData)+len(tlvLe)+len(tlvMAC))
	protectedData = append(protectedData, tlvData...)
	protectedData = append(protectedData, tlvLe...)
	protectedData = append(protectedData, tlvMAC...)

	return &apdu.Command{
		CLA:   0x0C,
		INS:   cmd.INS,
		P1:    cmd.P1,
		P2:    cmd.P2,
		Data:  protectedData,
		RxLen: 256,
	}, nil
}
