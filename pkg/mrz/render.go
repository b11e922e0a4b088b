package mrz

import (
	"strconv"
	"strings"
)

// Render writes m back to its fixed-width MRZ string, recomputing every
// check digit from the fields just written rather than trusting any input
// string the MRZ may once have come from.
func (m *MRZ) Render() string {
	switch m.Format {
	case TD1:
		return m.renderTD1()
	case TD2:
		return m.renderTD2()
	case TD3:
		return m.renderTD3()
	default:
		return ""
	}
}

func pushData(b *strings.Builder, value string, length int) {
	if len(value) > length {
		value = value[:length]
	}
	b.WriteString(value)
	if len(value) < length {
		b.WriteString(strings.Repeat(string(FillChar), length-len(value)))
	}
}

func pushOptData(b *strings.Builder, value string, length int) {
	pushData(b, value, length)
}

// pushNames renders name groups double-fill-separated, parts within a group
// single-fill-separated, then pads the remainder of the field with fill.
func pushNames(b *strings.Builder, names [][]string, length int) {
	n := 0
	for gi, group := range names {
		for pi, part := range group {
			b.WriteString(part)
			n += len(part)
			if pi < len(group)-1 {
				b.WriteRune(FillChar)
				n++
			}
		}
		if gi < len(names)-1 {
			b.WriteString(strings.Repeat(string(FillChar), 2))
			n += 2
		}
	}
	if n < length {
		b.WriteString(strings.Repeat(string(FillChar), length-n))
	}
}

func checkDigitString(data string) string {
	return strconv.Itoa(CheckDigitSum(data))
}

func (m *MRZ) renderTD1() string {
	var b strings.Builder
	b.Grow(td1Length)

	pushData(&b, m.DocumentCode, 2)
	pushData(&b, m.Issuer, 3)
	pushData(&b, m.DocumentNumber, 9)
	out := b.String()
	b.WriteString(checkDigitString(out[len(out)-9:]))

	pushOptData(&b, m.OptionalData1, 15)
	pushData(&b, m.DateOfBirth.Format(dateLayout), 6)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-6:]))

	pushData(&b, m.Sex.String(), 1)
	pushData(&b, m.DateOfExpiry.Format(dateLayout), 6)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-6:]))

	pushData(&b, m.Nationality, 3)
	pushOptData(&b, m.OptionalData2, 11)

	out = b.String()
	composite := out[5:14] + out[14:15] + out[15:30] + out[30:36] + out[36:37] +
		out[38:44] + out[44:45] + out[48:59]
	b.WriteString(checkDigitString(composite))

	pushNames(&b, m.Names, 30)

	return b.String()
}

func (m *MRZ) renderTD2() string {
	var b strings.Builder
	b.Grow(td2Length)

	pushData(&b, m.DocumentCode, 2)
	pushData(&b, m.Issuer, 3)
	pushNames(&b, m.Names, 31)

	pushData(&b, m.DocumentNumber, 9)
	out := b.String()
	b.WriteString(checkDigitString(out[len(out)-9:]))

	pushData(&b, m.Nationality, 3)
	pushData(&b, m.DateOfBirth.Format(dateLayout), 6)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-6:]))

	pushData(&b, m.Sex.String(), 1)
	pushData(&b, m.DateOfExpiry.Format(dateLayout), 6)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-6:]))

	pushOptData(&b, m.OptionalData1, 7)

	out = b.String()
	composite := out[36:45] + out[45:46] + out[49:55] + out[55:56] +
		out[57:63] + out[63:64] + out[64:71]
	b.WriteString(checkDigitString(composite))

	return b.String()
}

func (m *MRZ) renderTD3() string {
	var b strings.Builder
	b.Grow(td3Length)

	pushData(&b, m.DocumentCode, 2)
	pushData(&b, m.Issuer, 3)
	pushNames(&b, m.Names, 39)

	pushData(&b, m.DocumentNumber, 9)
	out := b.String()
	b.WriteString(checkDigitString(out[len(out)-9:]))

	pushData(&b, m.Nationality, 3)
	pushData(&b, m.DateOfBirth.Format(dateLayout), 6)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-6:]))

	pushData(&b, m.Sex.String(), 1)
	pushData(&b, m.DateOfExpiry.Format(dateLayout), 6)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-6:]))

	pushOptData(&b, m.OptionalData1, 14)
	out = b.String()
	b.WriteString(checkDigitString(out[len(out)-14:]))

	out = b.String()
	composite := out[44:53] + out[53:54] + out[57:63] + out[63:64] +
		out[65:71] + out[71:72] + out[72:86] + out[86:87]
	b.WriteString(checkDigitString(composite))

	return b.String()
}
