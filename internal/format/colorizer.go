package format

import "github.com/stormasm/nucommand/value"

// A Colorizer holds the ANSI codes used to color scalar output, indexed by
// value kind.  A nil *Colorizer is valid and colors nothing.
type Colorizer struct {
	KeyColorCode     []byte
	ScalarColorCodes [5][]byte
	ResetCode        []byte
}

func (c *Colorizer) scalarColorCode(kind value.Kind) []byte {
	if int(kind) < len(c.ScalarColorCodes) {
		return c.ScalarColorCodes[kind]
	}
	return nil
}

// PrintKey prints b colored as a record key.
func (c *Colorizer) PrintKey(p Printer, b []byte) {
	if c != nil {
		p.PrintBytes(c.KeyColorCode)
	}
	p.PrintBytes(b)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}

// PrintScalar prints b colored according to the scalar kind.
func (c *Colorizer) PrintScalar(p Printer, kind value.Kind, b []byte) {
	if c != nil {
		p.PrintBytes(c.scalarColorCode(kind))
	}
	p.PrintBytes(b)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}
