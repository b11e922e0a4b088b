package bac

// PACE (Password Authenticated Connection Establishment, ICAO Doc 9303
// Part 11 §4.4) supersedes BAC on newer documents but is out of scope for
// this handshake implementation. This file only catalogues the algorithm
// and standardized domain parameter OIDs a PACE negotiation would need to
// recognize, so that callers reading a chip's EF.CardAccess can name what
// they found even though this package cannot perform the key agreement
// itself.

// HashAlg describes one of the hash algorithms PACE's key derivation may
// use, identified by its OID descriptor as it appears DER-encoded in
// EF.CardAccess.
type HashAlg struct {
	Name       string
	Descriptor []byte
}

var (
	HashSHA1   = HashAlg{"SHA-1", []byte{0x06, 0x05, 0x2B, 0x0E, 0x03, 0x02, 0x1A}}
	HashSHA256 = HashAlg{"SHA-256", []byte{0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01}}
	HashSHA512 = HashAlg{"SHA-512", []byte{0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03}}
)

// Hashes lists every PACE-eligible hash algorithm.
var Hashes = []HashAlg{HashSHA1, HashSHA256, HashSHA512}

// PaceAlg identifies one PACE key-agreement-plus-cipher combination by its
// id-PACE-* OID descriptor.
type PaceAlg struct {
	Name       string
	Descriptor []byte
}

var (
	PaceDHGM3DESCBCCBC    = PaceAlg{"DH, Generic Mapping, 3DES-CBC-CBC", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x01, 0x01}}
	PaceDHGMAESCMAC128    = PaceAlg{"DH, Generic Mapping, AES-CMAC-128", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x01, 0x02}}
	PaceDHGMAESCMAC192    = PaceAlg{"DH, Generic Mapping, AES-CMAC-192", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x01, 0x03}}
	PaceDHGMAESCMAC256    = PaceAlg{"DH, Generic Mapping, AES-CMAC-256", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x01, 0x04}}
	PaceECDHGM3DESCBCCBC  = PaceAlg{"ECDH, Generic Mapping, 3DES-CBC-CBC", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x02, 0x01}}
	PaceECDHGMAESCMAC128  = PaceAlg{"ECDH, Generic Mapping, AES-CMAC-128", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x02, 0x02}}
	PaceECDHGMAESCMAC192  = PaceAlg{"ECDH, Generic Mapping, AES-CMAC-192", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x02, 0x03}}
	PaceECDHGMAESCMAC256  = PaceAlg{"ECDH, Generic Mapping, AES-CMAC-256", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x02, 0x04}}
	PaceDHIM3DESCBCCBC    = PaceAlg{"DH, Integrated Mapping, 3DES-CBC-CBC", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x03, 0x01}}
	PaceDHIMAESCMAC128    = PaceAlg{"DH, Integrated Mapping, AES-CMAC-128", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x03, 0x02}}
	PaceDHIMAESCMAC192    = PaceAlg{"DH, Integrated Mapping, AES-CMAC-192", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x03, 0x03}}
	PaceDHIMAESCMAC256    = PaceAlg{"DH, Integrated Mapping, AES-CMAC-256", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x03, 0x04}}
	PaceECDHIM3DESCBCCBC  = PaceAlg{"ECDH, Integrated Mapping, 3DES-CBC-CBC", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x04, 0x01}}
	PaceECDHIMAESCMAC128  = PaceAlg{"ECDH, Integrated Mapping, AES-CMAC-128", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x04, 0x02}}
	PaceECDHIMAESCMAC192  = PaceAlg{"ECDH, Integrated Mapping, AES-CMAC-192", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x04, 0x03}}
	PaceECDHIMAESCMAC256  = PaceAlg{"ECDH, Integrated Mapping, AES-CMAC-256", []byte{0x04, 0x00, 0x7F, 0x00, 0x07, 0x02, 0x02, 0x04, 0x04, 0x04}}
)

// PaceAlgs lists every standardized PACE algorithm OID.
var PaceAlgs = []PaceAlg{
	PaceDHGM3DESCBCCBC, PaceDHGMAESCMAC128, PaceDHGMAESCMAC192, PaceDHGMAESCMAC256,
	PaceECDHGM3DESCBCCBC, PaceECDHGMAESCMAC128, PaceECDHGMAESCMAC192, PaceECDHGMAESCMAC256,
	PaceDHIM3DESCBCCBC, PaceDHIMAESCMAC128, PaceDHIMAESCMAC192, PaceDHIMAESCMAC256,
	PaceECDHIM3DESCBCCBC, PaceECDHIMAESCMAC128, PaceECDHIMAESCMAC192, PaceECDHIMAESCMAC256,
}

// PaceSDP identifies a PACE standardized domain parameter set: a named DH
// or EC group with its id and bit size, per Doc 9303 Part 11 Appendix B.2.
type PaceSDP struct {
	ID   uint8
	Name string
	Size uint16
}

var (
	PaceSDPDHGroup22        = PaceSDP{0, "1024-bit MODP Group with 160-bit Prime Order Subgroup", 1024}
	PaceSDPDHGroup23        = PaceSDP{1, "2048-bit MODP Group with 224-bit Prime Order Subgroup", 2048}
	PaceSDPDHGroup24        = PaceSDP{2, "2048-bit MODP Group with 256-bit Prime Order Subgroup", 2048}
	PaceSDPSecp192r1        = PaceSDP{8, "NIST P-192 (secp192r1)", 192}
	PaceSDPSecp224r1        = PaceSDP{10, "NIST P-224 (secp224r1)", 224}
	PaceSDPSecp256r1        = PaceSDP{12, "NIST P-256 (secp256r1)", 256}
	PaceSDPSecp384r1        = PaceSDP{15, "NIST P-384 (secp384r1)", 384}
	PaceSDPSecp521r1        = PaceSDP{18, "NIST P-521 (secp521r1)", 521}
	PaceSDPBrainpoolP192r1  = PaceSDP{9, "BrainpoolP192r1", 192}
	PaceSDPBrainpoolP224r1  = PaceSDP{11, "BrainpoolP224r1", 224}
	PaceSDPBrainpoolP256r1  = PaceSDP{13, "BrainpoolP256r1", 256}
	PaceSDPBrainpoolP320r1  = PaceSDP{14, "BrainpoolP320r1", 320}
	PaceSDPBrainpoolP384r1  = PaceSDP{16, "BrainpoolP384r1", 384}
	PaceSDPBrainpoolP521r1  = PaceSDP{17, "BrainpoolP521r1", 521}
)

// PaceSDPs lists every standardized PACE domain parameter set.
var PaceSDPs = []PaceSDP{
	PaceSDPDHGroup22, PaceSDPDHGroup23, PaceSDPDHGroup24,
	PaceSDPSecp192r1, PaceSDPSecp224r1, PaceSDPSecp256r1, PaceSDPSecp384r1, PaceSDPSecp521r1,
	PaceSDPBrainpoolP192r1, PaceSDPBrainpoolP224r1, PaceSDPBrainpoolP256r1,
	PaceSDPBrainpoolP320r1, PaceSDPBrainpoolP384r1, PaceSDPBrainpoolP521r1,
}
