package liquid

import (
	"bufio"
	"io"
)

// WriteASCII renders the grid one row per line: '#' rock, '.' dry open cell,
// '1'-'9' liquid amount, '+' for amounts above nine.
func WriteASCII(out io.Writer, g *TileGrid) error {
	bw := bufio.NewWriter(out)
	size := g.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			c := Coord{X: x, Y: y}
			ch := byte('.')
			switch {
			case g.Terrain(c) != TerrainOpen:
				ch = '#'
			default:
				if s, ok := g.LiquidAt(c); ok && s.Amount > 0 {
					if s.Amount > 9 {
						ch = '+'
					} else {
						ch = byte('0' + s.Amount)
					}
				}
			}
			if err := bw.WriteByte(ch); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
