//go:build linux && amd64

package picacmd

import (
	"go.brendoncarroll.net/star"

	"picaweb.org/picajit/jit1"
)

func init() {
	commands["compile"] = compileCmd
}

var compileCmd = star.Command{
	Metadata: star.Metadata{
		Short: "compile a shader program and report the native code size",
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
		s, err := jit1.Compile(c.Context, words, swizzle)
		if err != nil {
			return err
		}
		defer s.Free()
		c.Printf("INSTRUCTIONS: %d\n", len(words))
		c.Printf("NATIVE-SIZE: %d bytes\n", s.Size())
		return nil
	},
}
