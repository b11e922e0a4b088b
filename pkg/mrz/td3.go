package mrz

const td3Length = 88

// rawTD3 is the borrowed view over a TD3-format MRZ (passport booklet, 2
// lines of 44 characters each).
type rawTD3 struct {
	s string

	documentCode               string
	issuer                     string
	name                       string
	documentNumber             string
	documentNumberCheckDigit   string
	nationality                string
	dateOfBirth                string
	dateOfBirthCheckDigit      string
	sex                        string
	dateOfExpiry               string
	dateOfExpiryCheckDigit     string
	optionalData1              string
	optionalData1CheckDigit    string
	compositeCheckDigit        string
}

func parseTD3(input string) (*rawTD3, error) {
	if len(input) != td3Length {
		return nil, ErrInvalidLength
	}

	return &rawTD3{
		s:                       input,
		documentCode:            input[0:2],
		issuer:                  input[2:5],
		name:                    input[5:44],
		documentNumber:          input[44:53],
		documentNumberCheckDigit: input[53:54],
		nationality:             input[54:57],
		dateOfBirth:             input[57:63],
		dateOfBirthCheckDigit:   input[63:64],
		sex:                     input[64:65],
		dateOfExpiry:            input[65:71],
		dateOfExpiryCheckDigit:  input[71:72],
		optionalData1:           input[72:86],
		optionalData1CheckDigit: input[86:87],
		compositeCheckDigit:     input[87:88],
	}, nil
}

func (r *rawTD3) Format() Format                   { return TD3 }
func (r *rawTD3) DocumentCode() string             { return r.documentCode }
func (r *rawTD3) Issuer() string                   { return r.issuer }
func (r *rawTD3) DocumentNumber() string           { return r.documentNumber }
func (r *rawTD3) DocumentNumberCheckDigit() string { return r.documentNumberCheckDigit }
func (r *rawTD3) DateOfBirth() string              { return r.dateOfBirth }
func (r *rawTD3) DateOfBirthCheckDigit() string    { return r.dateOfBirthCheckDigit }
func (r *rawTD3) DateOfExpiry() string             { return r.dateOfExpiry }
func (r *rawTD3) DateOfExpiryCheckDigit() string   { return r.dateOfExpiryCheckDigit }
func (r *rawTD3) Name() string                     { return r.name }
func (r *rawTD3) Sex() string                      { return r.sex }
func (r *rawTD3) Nationality() string              { return r.nationality }
func (r *rawTD3) OptionalData1() string            { return r.optionalData1 }

func (r *rawTD3) OptionalData1CheckDigit() (string, bool) {
	return r.optionalData1CheckDigit, true
}

func (r *rawTD3) OptionalData2() (string, bool) { return "", false }
func (r *rawTD3) CompositeCheckDigit() string   { return r.compositeCheckDigit }
func (r *rawTD3) String() string                { return r.s }

func (r *rawTD3) DocumentCodeValid() bool {
	return r.documentCode[0] == 'P'
}

func (r *rawTD3) CompositeData() string {
	return r.documentNumber + r.documentNumberCheckDigit +
		r.dateOfBirth + r.dateOfBirthCheckDigit +
		r.dateOfExpiry + r.dateOfExpiryCheckDigit +
		r.optionalData1 + r.optionalData1CheckDigit
}
