package mrz

const td2Length = 72

// rawTD2 is the borrowed view over a TD2-format MRZ (ID-2 card, 2 lines of
// 36 characters each).
type rawTD2 struct {
	s string

	documentCode             string
	issuer                   string
	name                     string
	documentNumber           string
	documentNumberCheckDigit string
	nationality              string
	dateOfBirth              string
	dateOfBirthCheckDigit    string
	sex                      string
	dateOfExpiry             string
	dateOfExpiryCheckDigit   string
	optionalData1            string
	compositeCheckDigit      string
}

func parseTD2(input string) (*rawTD2, error) {
	if len(input) != td2Length {
		return nil, ErrInvalidLength
	}

	return &rawTD2{
		s:                        input,
		documentCode:             input[0:2],
		issuer:                   input[2:5],
		name:                     input[5:36],
		documentNumber:           input[36:45],
		documentNumberCheckDigit: input[45:46],
		nationality:              input[46:49],
		dateOfBirth:              input[49:55],
		dateOfBirthCheckDigit:    input[55:56],
		sex:                      input[56:57],
		dateOfExpiry:             input[57:63],
		dateOfExpiryCheckDigit:   input[63:64],
		optionalData1:            input[64:71],
		compositeCheckDigit:      input[71:72],
	}, nil
}

func (r *rawTD2) Format() Format                   { return TD2 }
func (r *rawTD2) DocumentCode() string             { return r.documentCode }
func (r *rawTD2) Issuer() string                   { return r.issuer }
func (r *rawTD2) DocumentNumber() string           { return r.documentNumber }
func (r *rawTD2) DocumentNumberCheckDigit() string { return r.documentNumberCheckDigit }
func (r *rawTD2) DateOfBirth() string              { return r.dateOfBirth }
func (r *rawTD2) DateOfBirthCheckDigit() string    { return r.dateOfBirthCheckDigit }
func (r *rawTD2) DateOfExpiry() string             { return r.dateOfExpiry }
func (r *rawTD2) DateOfExpiryCheckDigit() string   { return r.dateOfExpiryCheckDigit }
func (r *rawTD2) Name() string                     { return r.name }
func (r *rawTD2) Sex() string                      { return r.sex }
func (r *rawTD2) Nationality() string              { return r.nationality }
func (r *rawTD2) OptionalData1() string            { return r.optionalData1 }
func (r *rawTD2) OptionalData1CheckDigit() (string, bool) { return "", false }
func (r *rawTD2) OptionalData2() (string, bool)    { return "", false }
func (r *rawTD2) CompositeCheckDigit() string      { return r.compositeCheckDigit }
func (r *rawTD2) String() string                   { return r.s }

func (r *rawTD2) DocumentCodeValid() bool {
	switch r.documentCode[0] {
	case 'I', 'P', 'A', 'C':
		return true
	default:
		return false
	}
}

func (r *rawTD2) CompositeData() string {
	return r.documentNumber + r.documentNumberCheckDigit +
		r.dateOfBirth + r.dateOfBirthCheckDigit +
		r.dateOfExpiry + r.dateOfExpiryCheckDigit +
		r.optionalData1
}
