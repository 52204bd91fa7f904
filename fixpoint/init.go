package fixpoint

import (
	"math/big"

	"github.com/cs-au-dk/vsa/absenv"
	"github.com/cs-au-dk/vsa/memstore"
	"github.com/cs-au-dk/vsa/region"
	"github.com/cs-au-dk/vsa/vs"
)

// initEnv builds the seeded entry state: the stack pointer maps to a
// singleton VS in its own fresh region at offset 0, and the memory variable
// maps to a MemStore seeded byte-by-byte from InitialMem into the global
// region.
func initEnv(c Config) absenv.Env {
	spRegion := region.New(c.SP.Name)
	env := absenv.Empty()
	env = env.Bind(c.SP, absenv.ScalarBinding(vs.OfRegionBase(spRegion, c.SP.Width)))

	addrWidth := c.addrWidth()
	mem := memstore.New(c.memMax())
	for _, b := range c.InitialMem {
		addr := vs.OfBigInt(b.Addr, addrWidth)
		val := vs.OfBigInt(big.NewInt(int64(b.Value)), 8)
		mem = mem.Write(8, addr, val)
	}
	env = env.Bind(c.Mem, absenv.ArrayBinding(mem))

	return env
}
