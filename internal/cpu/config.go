package cpu

import (
	"fmt"
	"math/rand/v2"

	"github.com/mnafees/c8core/internal/memory"
)

// Quirks selects between CHIP-8 behaviours that differ across interpreters.
// The zero value follows the COSMAC VIP interpreter for shifts and
// the CHIP-48 interpreter for register store/load.
type Quirks struct {
	// ShiftInPlace makes 8XY6 and 8XYE shift Vx instead of copying the
	// shifted Vy into Vx.
	ShiftInPlace bool
	// IncrementIndex makes FX55 and FX65 leave I pointing past the last
	// register transferred (I = I + X + 1).
	IncrementIndex bool
}

// Config holds the configuration parameters for a CPU.
type Config struct {
	// Origin is the address of the first instruction.
	Origin uint16
	Quirks Quirks
	// Random returns the byte masked by CXNN. Tests replace it to make
	// CXNN deterministic.
	Random func() uint8
}

// DefaultConfig returns a configuration that starts programs at 0x200.
func DefaultConfig() Config {
	return Config{
		Origin: memory.ProgramAddr,
		Random: randomByte,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if int(c.Origin) < fontAddr+fontSize {
		return fmt.Errorf("origin 0x%04X overlaps the font data", c.Origin)
	}
	if int(c.Origin)+2 > memory.Size {
		return fmt.Errorf("origin 0x%04X leaves no room for an instruction", c.Origin)
	}
	return nil
}

func randomByte() uint8 {
	return uint8(rand.Uint32())
}
