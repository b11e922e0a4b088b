// Package files catalogues the elementary files an eMRTD chip exposes and
// implements the chunked READ BINARY loop that pulls one file's contents
// over an established secure messaging session.
package files

// DataGroup identifies one of the sixteen ICAO Doc 9303 LDS data groups; 0
// marks a file that isn't a data group (EF.COM, EF.SOD, EF.CardAccess, ...).
type DataGroup = uint8

// Tag is the BER-TLV application tag a file's contents are wrapped in.
type Tag = byte

// FileID is the two-byte short file identifier used to SELECT an EF.
type FileID = uint16

// File describes one elementary file's identity and the security
// conditions under which it is readable.
type File struct {
	Tag         Tag
	DG          DataGroup
	FileID      FileID
	Name        string
	Description string
	PACE        bool // only readable after a PACE (not BAC) session
	EAC         bool // requires Extended Access Control beyond BAC/PACE
	Required    bool // LDS1 mandates this file be present
	Fast        bool // small enough to prefer a single READ BINARY burst
}

// The LDS1 elementary file catalogue, per ICAO Doc 9303 Part 10 §4.
var (
	EFCOM          = File{Tag: 0x60, DG: 0, FileID: 0x011E, Name: "EF_COM", Description: "Header and Data Group Presence Information", Required: true, Fast: true}
	EFSOD          = File{Tag: 0x77, DG: 0, FileID: 0x011D, Name: "EF_SOD", Description: "Document Security Object"}
	EFCardAccess   = File{Tag: 0xFF, DG: 0, FileID: 0x011C, Name: "EF_CardAccess", Description: "PACE SecurityInfos", PACE: true, Required: true, Fast: true}
	EFCardSecurity = File{Tag: 0xFF, DG: 0, FileID: 0x011D, Name: "EF_CardSecurity", Description: "PACE SecurityInfos for Chip Authentication Mapping", PACE: true, Fast: true}
	EFDG1          = File{Tag: 0x61, DG: 1, FileID: 0x0101, Name: "EF_DG1", Description: "Details recorded in MRZ", Required: true, Fast: true}
	EFDG2          = File{Tag: 0x75, DG: 2, FileID: 0x0102, Name: "EF_DG2", Description: "Encoded Face", Required: true}
	EFDG3          = File{Tag: 0x63, DG: 3, FileID: 0x0103, Name: "EF_DG3", Description: "Encoded Finger(s)", EAC: true}
	EFDG4          = File{Tag: 0x76, DG: 4, FileID: 0x0104, Name: "EF_DG4", Description: "Encoded Eye(s)", EAC: true}
	EFDG5          = File{Tag: 0x65, DG: 5, FileID: 0x0105, Name: "EF_DG5", Description: "Displayed Portrait"}
	EFDG6          = File{Tag: 0x66, DG: 6, FileID: 0x0106, Name: "EF_DG6", Description: "Reserved for Future Use"}
	EFDG7          = File{Tag: 0x67, DG: 7, FileID: 0x0107, Name: "EF_DG7", Description: "Displayed Signature or Usual Mark"}
	EFDG8          = File{Tag: 0x68, DG: 8, FileID: 0x0108, Name: "EF_DG8", Description: "Data Feature(s)", Fast: true}
	EFDG9          = File{Tag: 0x69, DG: 9, FileID: 0x0109, Name: "EF_DG9", Description: "Structure Feature(s)", Fast: true}
	EFDG10         = File{Tag: 0x6A, DG: 10, FileID: 0x010A, Name: "EF_DG10", Description: "Substance Feature(s)", Fast: true}
	EFDG11         = File{Tag: 0x6B, DG: 11, FileID: 0x010B, Name: "EF_DG11", Description: "Additional Personal Detail(s)", Fast: true}
	EFDG12         = File{Tag: 0x6C, DG: 12, FileID: 0x010C, Name: "EF_DG12", Description: "Additional Document Detail(s)", Fast: true}
	EFDG13         = File{Tag: 0x6D, DG: 13, FileID: 0x010D, Name: "EF_DG13", Description: "Optional Detail(s)", Fast: true}
	EFDG14         = File{Tag: 0x6E, DG: 14, FileID: 0x010E, Name: "EF_DG14", Description: "Security Options", Fast: true}
	EFDG15         = File{Tag: 0x6F, DG: 15, FileID: 0x010F, Name: "EF_DG15", Description: "Active Authentication Public Key Info", Fast: true}
	EFDG16         = File{Tag: 0x70, DG: 16, FileID: 0x0110, Name: "EF_DG16", Description: "Person(s) to Notify", Fast: true}
)

// Files lists the full catalogue in the order a reader typically walks it:
// header files first, then the data groups.
var Files = []File{
	EFCOM, EFSOD, EFCardAccess, EFCardSecurity, EFDG14, EFDG15,
	EFDG1, EFDG2, EFDG3, EFDG4, EFDG5, EFDG6, EFDG7, EFDG8,
	EFDG9, EFDG10, EFDG11, EFDG12, EFDG13, EFDG16,
}

// ByDG returns the catalogued file for a data group number, if any.
func ByDG(dg DataGroup) (File, bool) {
	for _, f := range Files {
		if f.DG == dg && dg != 0 {
			return f, true
		}
	}

	return File{}, false
}

// ByName returns the catalogued file with the given name, if any.
func ByName(name string) (File, bool) {
	for _, f := range Files {
		if f.Name == name {
			return f, true
		}
	}

	return File{}, false
}
