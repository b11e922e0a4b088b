package mrz

const td1Length = 90

// rawTD1 is the borrowed view over a TD1-format MRZ (ID-1 card, 3 lines of
// 30 characters each).
type rawTD1 struct {
	s string

	documentCode             string
	issuer                   string
	documentNumber           string
	documentNumberCheckDigit string
	optionalData1            string
	dateOfBirth              string
	dateOfBirthCheckDigit    string
	sex                      string
	dateOfExpiry             string
	dateOfExpiryCheckDigit   string
	nationality              string
	optionalData2            string
	compositeCheckDigit      string
	name                     string
}

func parseTD1(input string) (*rawTD1, error) {
	if len(input) != td1Length {
		return nil, ErrInvalidLength
	}

	return &rawTD1{
		s:                         input,
		documentCode:              input[0:2],
		issuer:                    input[2:5],
		documentNumber:            input[5:14],
		documentNumberCheckDigit:  input[14:15],
		optionalData1:             input[15:30],
		dateOfBirth:               input[30:36],
		dateOfBirthCheckDigit:     input[36:37],
		sex:                       input[37:38],
		dateOfExpiry:              input[38:44],
		dateOfExpiryCheckDigit:    input[44:45],
		nationality:               input[45:48],
		optionalData2:             input[48:59],
		compositeCheckDigit:       input[59:60],
		name:                      input[60:90],
	}, nil
}

func (r *rawTD1) Format() Format                 { return TD1 }
func (r *rawTD1) DocumentCode() string           { return r.documentCode }
func (r *rawTD1) Issuer() string                 { return r.issuer }
func (r *rawTD1) DocumentNumber() string         { return r.documentNumber }
func (r *rawTD1) DocumentNumberCheckDigit() string { return r.documentNumberCheckDigit }
func (r *rawTD1) DateOfBirth() string            { return r.dateOfBirth }
func (r *rawTD1) DateOfBirthCheckDigit() string  { return r.dateOfBirthCheckDigit }
func (r *rawTD1) DateOfExpiry() string           { return r.dateOfExpiry }
func (r *rawTD1) DateOfExpiryCheckDigit() string { return r.dateOfExpiryCheckDigit }
func (r *rawTD1) Name() string                   { return r.name }
func (r *rawTD1) Sex() string                    { return r.sex }
func (r *rawTD1) Nationality() string            { return r.nationality }
func (r *rawTD1) OptionalData1() string          { return r.optionalData1 }
func (r *rawTD1) OptionalData1CheckDigit() (string, bool) { return "", false }
func (r *rawTD1) OptionalData2() (string, bool) { return r.optionalData2, true }
func (r *rawTD1) CompositeCheckDigit() string   { return r.compositeCheckDigit }
func (r *rawTD1) String() string                { return r.s }

func (r *rawTD1) DocumentCodeValid() bool {
	switch r.documentCode[0] {
	case 'I', 'A', 'C':
		return true
	default:
		return false
	}
}

func (r *rawTD1) CompositeData() string {
	return r.documentNumber + r.documentNumberCheckDigit + r.optionalData1 +
		r.dateOfBirth + r.dateOfBirthCheckDigit +
		r.dateOfExpiry + r.dateOfExpiryCheckDigit +
		r.optionalData2
}
