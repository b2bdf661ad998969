package codegenerator

import (
	"crypto/rand"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/verification"
	"io"
	"math/big"
	"strings"
)

const maxAttempts = 100

var errTooManyAttempts = errors.New("could not generate a code outside of the denylist")

// Generator draws every digit of a code independently and uniformly.
type Generator struct {
	reader   io.Reader
	length   int
	denylist map[verification.Code]struct{}
}

func NewGenerator(denylist []verification.Code) *Generator {
	return NewGeneratorWithReader(rand.Reader, denylist)
}

func NewGeneratorWithReader(reader io.Reader, denylist []verification.Code) *Generator {
	if reader == nil {
		panic(e.NewNilArgumentError("reader"))
	}
	denied := make(map[verification.Code]struct{}, len(denylist))
	for _, code := range denylist {
		denied[code] = struct{}{}
	}
	return &Generator{reader: reader, length: verification.CodeLength, denylist: denied}
}

func (g *Generator) GenerateCode() (verification.Code, error) {
	ten := big.NewInt(10)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var b strings.Builder
		b.Grow(g.length)
		for i := 0; i < g.length; i++ {
			digit, err := rand.Int(g.reader, ten)
			if err != nil {
				return "", err
			}
			b.WriteByte(byte('0' + digit.Int64()))
		}
		code := verification.Code(b.String())
		if _, denied := g.denylist[code]; !denied {
			return code, nil
		}
	}
	return "", errTooManyAttempts
}
