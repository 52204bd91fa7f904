// Package fixpoint implements the forward worklist dataflow driver: seed
// the entry vertex, meet predecessor outputs through the edge transfer,
// run the statement transfer, and widen once a vertex has been revisited
// past a configurable threshold.
package fixpoint

import (
	"fmt"
	"math/big"

	"github.com/cs-au-dk/vsa/ir"
)

// defaultMemMax is the 2^16 MemStore size cap.
const defaultMemMax = 1 << 16

// defaultNmeets is the number of plain meets at a vertex before the driver
// switches to widening there.
const defaultNmeets = 2

// defaultAddrWidth is the bit width addresses (MemStore offsets, InitialMem
// entries) are assumed to have when Config.AddrWidth is left at zero.
const defaultAddrWidth = 64

// MemByte is one (address, byte) pre-population entry for the global
// region, used to seed initial memory contents before the driver runs.
type MemByte struct {
	Addr  *big.Int
	Value byte
}

// Config carries every tunable the driver needs, explicitly - not as
// package-global mutable state. DisableSignednessHack and MemMax are
// analysis parameters threaded through Config rather than following this
// repo's CLI-flag-global-opts idiom used for ambient concerns elsewhere.
type Config struct {
	// SP is the stack-pointer variable; init seeds it to its own region at
	// offset 0. Must differ from the zero Var sentinel.
	SP ir.Var
	// Mem is the memory variable; init seeds it with InitialMem.
	Mem ir.Var

	InitialMem []MemByte

	// Nmeets is the per-vertex widening threshold. Zero means "use the
	// default".
	Nmeets int

	// DisableSignednessHack turns off edge.Recognize's acceptance of
	// unsigned comparisons. The hack is on by default (only a true value
	// here turns it off), since an unset Config is the common case and the
	// documented default is "on".
	DisableSignednessHack bool
	// MemMax bounds MemStore enumeration and region collapse (default
	// 2^16).
	MemMax int

	// AddrWidth is the bit width of addresses fed to MemStore (InitialMem
	// entries, Load/Store indices). Zero means "use the default".
	AddrWidth uint
}

func (c Config) nmeets() int {
	if c.Nmeets > 0 {
		return c.Nmeets
	}
	return defaultNmeets
}

func (c Config) memMax() int {
	if c.MemMax > 0 {
		return c.MemMax
	}
	return defaultMemMax
}

func (c Config) addrWidth() uint {
	if c.AddrWidth > 0 {
		return c.AddrWidth
	}
	return defaultAddrWidth
}

func (c Config) signednessHack() bool {
	return !c.DisableSignednessHack
}

// validate is a fail-fast misconfiguration check: SP and Mem must differ
// from the sentinel zero Var.
func (c Config) validate() error {
	var zero ir.Var
	if c.SP == zero {
		return fmt.Errorf("fixpoint: Config.SP must be set to the stack-pointer variable")
	}
	if c.Mem == zero {
		return fmt.Errorf("fixpoint: Config.Mem must be set to the memory variable")
	}
	if c.SP == c.Mem {
		return fmt.Errorf("fixpoint: Config.SP and Config.Mem must be distinct variables")
	}
	return nil
}
