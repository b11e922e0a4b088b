package sm

import (
	"bytes"
	"encoding/binary"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/andrei-cloud/go-emrtd/pkg/emrtderr"
)

// UnprotectCommand decodes a protected command APDU the way a chip does:
// verify its MAC under the current SSC, then decrypt its data object. It is
// the mirror image of Protect, for simulators standing in for a chip.
func (s *Session) UnprotectCommand(protected *apdu.Command) (*apdu.Command, error) {
	return decodeProtectedCommand(protected, s.ksEnc, s.ksMac, &s.ssc)
}

// ProtectResponse encodes a plain response into its secure-messaging form
// the way a chip does, mirroring Unprotect. useDO87 should match whichever
// data object tag the triggering command used (even INS -> DO'87').
func (s *Session) ProtectResponse(data []byte, trailer apdu.Trailer, useDO87 bool) ([]byte, error) {
	return encodeProtectedResponse(data, trailer, useDO87, s.ksEnc, s.ksMac, &s.ssc)
}

func decodeProtectedCommand(protected *apdu.Command, ksEnc, ksMac []byte, ssc *uint64) (*apdu.Command, error) {
	tlvs, err := parseTLVs(protected.Data)
	if err != nil {
		return nil, err
	}

	macTLV, hasMAC := findTLV(tlvs, TagMAC)
	if !hasMAC {
		return nil, emrtderr.New(emrtderr.KindSM, "protected command missing DO'8E'")
	}

	dataTLV, hasData := findTLV(tlvs, TagUnpaddedData)
	if !hasData {
		dataTLV, hasData = findTLV(tlvs, TagPaddedData)
	}
	leTLV, hasLe := findTLV(tlvs, TagLe)

	header := &apdu.Command{CLA: 0x0C, INS: protected.INS, P1: protected.P1, P2: protected.P2}
	m := crypto.Pad(header.Bytes())
	if hasData {
		m = append(m, dataTLV.Raw...)
	}
	if hasLe {
		m = append(m, leTLV.Raw...)
	}

	*ssc++
	n := make([]byte, 0, 8+len(m))
	n = binary.BigEndian.AppendUint64(n, *ssc)
	n = append(n, m...)

	cc, err := crypto.RetailMAC(ksMac, n)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "failed to MAC protected command", err)
	}
	if !bytes.Equal(cc, macTLV.Value) {
		return nil, emrtderr.New(emrtderr.KindSM, "invalid command MAC")
	}

	var plainData []byte
	if hasData {
		ciphertext := dataTLV.Value
		if dataTLV.Tag == TagPaddedData {
			if len(ciphertext) == 0 {
				return nil, emrtderr.New(emrtderr.KindSM, "DO'87' missing padding indicator")
			}
			ciphertext = ciphertext[1:]
		}

		plainData, err = crypto.TDESDecryptUnpad(ksEnc, ciphertext)
		if err != nil {
			return nil, emrtderr.Wrap(emrtderr.KindCrypto, "failed to decrypt command data", err)
		}
	}

	rxLen := 0
	if hasLe {
		rxLen, err = decodeLe(leTLV.Value)
		if err != nil {
			return nil, err
		}
	}

	return &apdu.Command{CLA: 0x00, INS: protected.INS, P1: protected.P1, P2: protected.P2, Data: plainData, RxLen: rxLen}, nil
}

func encodeProtectedResponse(data []byte, trailer apdu.Trailer, useDO87 bool, ksEnc, ksMac []byte, ssc *uint64) ([]byte, error) {
	var dataTLV []byte
	if len(data) > 0 {
		ciphertext, err := crypto.TDESEncryptPad(ksEnc, data)
		if err != nil {
			return nil, emrtderr.Wrap(emrtderr.KindCrypto, "failed to encrypt response data", err)
		}

		if useDO87 {
			value := append([]byte{paddingIndicator}, ciphertext...)
			dataTLV = encodeTLV(TagPaddedData, value)
		} else {
			dataTLV = encodeTLV(TagUnpaddedData, ciphertext)
		}
	}

	statusTLV := encodeTLV(TagStatus, []byte{trailer.SW1, trailer.SW2})

	*ssc++
	k := make([]byte, 0, 8+len(dataTLV)+len(statusTLV))
	k = binary.BigEndian.AppendUint64(k, *ssc)
	k = append(k, dataTLV...)
	k = append(k, statusTLV...)

	cc, err := crypto.RetailMAC(ksMac, k)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "failed to MAC protected response", err)
	}
	macTLV := encodeTLV(TagMAC, cc)

	raw := make([]byte, 0, len(dataTLV)+len(statusTLV)+len(macTLV)+2)
	raw = append(raw, dataTLV...)
	raw = append(raw, statusTLV...)
	raw = append(raw, macTLV...)
	raw = append(raw, trailer.SW1, trailer.SW2)

	return raw, nil
}

// decodeLe reverses Command.LeBytes for the 1- and 2-byte short forms a
// BAC/PACE session ever produces; eMRTDs never negotiate 3-byte extended Le.
func decodeLe(v []byte) (int, error) {
	switch len(v) {
	case 1:
		if v[0] == 0 {
			return 256, nil
		}

		return int(v[0]), nil
	case 2:
		n := int(v[0])<<8 | int(v[1])
		if n == 0 {
			return 65536, nil
		}

		return n, nil
	default:
		return 0, emrtderr.New(emrtderr.KindSM, "unsupported DO'97' length")
	}
}
