// package picacmd implements the picajit command line tool.
package picacmd

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"go.brendoncarroll.net/star"

	"picaweb.org/picajit/jit1"
	"picaweb.org/picajit/picaisa"
)

func Root() star.Command {
	return star.NewDir(star.Metadata{
		Short: "PICA200 vertex shader tools",
	}, commands)
}

var commands = map[star.Symbol]star.Command{
	"dis":         disCmd,
	"fingerprint": fpCmd,
}

var fileParam = star.Param[*os.File]{
	Name: "f",
	Parse: func(x string) (*os.File, error) {
		return os.Open(x)
	},
}

var disCmd = star.Command{
	Metadata: star.Metadata{
		Short: "disassemble a shader program binary",
	},
	Pos: []star.IParam{fileParam},
	F: func(c star.Context) error {
		f := fileParam.Load(c)
		defer f.Close()
		words, err := readWords(f)
		if err != nil {
			return err
		}
		for i, w := range words {
			c.Printf("%3d: %08x  %v\n", i, w, picaisa.Instruction(w))
		}
		return nil
	},
}

var fpCmd = star.Command{
	Metadata: star.Metadata{
		Short: "print the shader cache fingerprint of a program",
	},
	Pos: []star.IParam{fileParam, swizzleParam},
	F: func(c star.Context) error {
		f := fileParam.Load(c)
		defer f.Close()
		words, err := readWords(f)
		if err != nil {
			return err
		}
		sf := swizzleParam.Load(c)
		defer sf.Close()
		swizzle, err := readWords(sf)
		if err != nil {
			return err
		}
		fp := jit1.FingerprintOf(words, swizzle)
		c.Printf("%x\n", fp[:])
		return nil
	},
}

var swizzleParam = star.Param[*os.File]{
	Name: "swizzle",
	Parse: func(x string) (*os.File, error) {
		return os.Open(x)
	},
}

// readWords reads a file of little-endian 32-bit words.
func readWords(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("file size %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}
