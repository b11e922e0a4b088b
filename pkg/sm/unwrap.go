package sm

import (
	"bytes"
	"encoding/binary"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/andrei-cloud/go-emrtd/pkg/emrtderr"
)

// unprotect implements Doc 9303 Part 11 §9.8.4's response un-protection:
// verify the RAPDU's trailer, MAC its DO'85'/'87' and DO'99' under the
// incremented SSC, and decrypt the data object to recover the plain
// response.
func unprotect(raw []byte, ksEnc, ksMac []byte, ssc *uint64) (apdu.Response, error) {
	res := apdu.ParseResponse(raw)
	if !res.Trailer.OK() {
		return apdu.Response{}, emrtderr.New(emrtderr.KindSM, "protected APDU failed: "+res.Trailer.String())
	}

	tlvs, err := parseTLVs(res.Data)
	if err != nil {
		return apdu.Response{}, err
	}

	statusTLV, hasStatus := findTLV(tlvs, TagStatus)
	macTLV, hasMAC := findTLV(tlvs, TagMAC)
	if !hasStatus || !hasMAC {
		return apdu.Response{}, emrtderr.New(emrtderr.KindSM, "response missing DO'99' or DO'8E'")
	}

	dataTLV, hasData := findTLV(tlvs, TagUnpaddedData)
	if !hasData {
		dataTLV, hasData = findTLV(tlvs, TagPaddedData)
	}

	*ssc++
	k := make([]byte, 0, 8+len(dataTLV.Raw)+len(statusTLV.Raw))
	k = binary.BigEndian.AppendUint64(k, *ssc)
	k = append(k, dataTLV.Raw...)
	k = append(k, statusTLV.Raw...)

	cc, err := crypto.RetailMAC(ksMac, k)
	if err != nil {
		return apdu.Response{}, emrtderr.Wrap(emrtderr.KindCrypto, "failed to MAC protected response", err)
	}
	if !bytes.Equal(cc, macTLV.Value) {
		return apdu.Response{}, emrtderr.New(emrtderr.KindSM, "invalid response MAC")
	}

	var plainData []byte
	if hasData {
		ciphertext := dataTLV.Value
		if dataTLV.Tag == TagPaddedData {
			if len(ciphertext) == 0 {
				return apdu.Response{}, emrtderr.New(emrtderr.KindSM, "DO'87' missing padding indicator")
			}
			ciphertext = ciphertext[1:]
		}

		plainData, err = crypto.TDESDecryptUnpad(ksEnc, ciphertext)
		if err != nil {
			return apdu.Response{}, emrtderr.Wrap(emrtderr.KindCrypto, "failed to decrypt response data", err)
		}
	}

	if len(statusTLV.Value) != 2 {
		return apdu.Response{}, emrtderr.New(emrtderr.KindSM, "DO'99' must carry exactly 2 status bytes")
	}

	return apdu.Response{
		Data:    plainData,
		Trailer: apdu.Trailer{SW1: statusTLV.Value[0], SW2: statusTLV.Value[1]},
	}, nil
}
