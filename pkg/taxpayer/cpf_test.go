package taxpayer

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CPFSuite struct {
	suite.Suite
}

func TestCPFSuite(t *testing.T) {
	suite.Run(t, new(CPFSuite))
}

func (s *CPFSuite) TestIsValid_KnownSamples() {
	s.True(IsValid("11144477735"))
	s.True(IsValid("111.444.777-35"))
	s.True(IsValid(" 111 444 777 35 "))
	s.True(IsValid("529.982.247-25"))
}

func (s *CPFSuite) TestIsValid_Rejections() {
	cases := map[string]string{
		"repeated zeros":           "00000000000",
		"repeated nines":           "999.999.999-99",
		"too short":                "123",
		"too long":                 "111444777350",
		"empty":                    "",
		"tampered second digit":    "111.444.777-36",
		"tampered first digit":     "111.444.777-45",
		"letters only":             "abc.def.ghi-jk",
		"digits hidden in letters": "1a1b1c4d4e4f7g7h7i3j5k0",
	}
	for name, input := range cases {
		s.Run(name, func() {
			s.False(IsValid(input))
		})
	}
}

func (s *CPFSuite) TestIsValid_EveryRepeatedDigitRejected() {
	for c := '0'; c <= '9'; c++ {
		s.False(IsValid(strings.Repeat(string(c), Length)))
	}
}

func (s *CPFSuite) TestFormat() {
	s.Equal("111.444.777-35", Format("11144477735"))
	s.Equal("111.444.777-35", Format("111.444.777-35"))
	s.Equal("111.444.777-35", Format("111-444-777/35"))
}

func (s *CPFSuite) TestFormat_MalformedReturnsDigits() {
	s.Equal("123", Format("1.2.3"))
	s.Equal("", Format("abc"))
	s.Equal("111444777350", Format("111444777350"), "longer input is not punctuated")
}

func (s *CPFSuite) TestCheckDigits() {
	s.Run("matches the known sample", func() {
		cd, err := CheckDigits("111444777")
		s.Require().NoError(err)
		s.Equal("35", cd)
	})

	s.Run("rejects punctuation and wrong lengths", func() {
		for _, base := range []string{"11144477", "1114447770", "111.444.777", ""} {
			_, err := CheckDigits(base)
			s.Error(err, base)
		}
	})
}

func (s *CPFSuite) TestFormatPreservesValidity() {
	r := rand.New(rand.NewPCG(11, 29))
	checked := 0
	for checked < 500 {
		var b strings.Builder
		for i := 0; i < baseLength; i++ {
			b.WriteByte(byte('0' + r.IntN(10)))
		}
		base := b.String()
		cd, err := CheckDigits(base)
		s.Require().NoError(err)
		cpf := base + cd
		if !IsValid(cpf) {
			// Only repeated-digit bases are rejected despite correct check digits.
			s.Require().True(repeated(cpf), cpf)
			continue
		}
		formatted := Format(cpf)
		s.Require().Len(formatted, 14)
		s.Require().True(IsValid(Digits(formatted)), formatted)
		s.Require().True(IsValid(formatted), formatted)
		checked++
	}
}

func (s *CPFSuite) TestDigits() {
	s.Equal("11144477735", Digits("111.444.777-35"))
	s.Equal("", Digits("---"))
	s.Equal("2", Digits("１2３")) // full-width digits are not ASCII digits
}
