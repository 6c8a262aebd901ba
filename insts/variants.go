package insts

import (
	"fmt"
	"strings"
)

// StatusSuffix is the mnemonic suffix that requests a status flag update.
const StatusSuffix = "s"

// Variant is one spelling of a base mnemonic.
type Variant struct {
	Mnemonic string // Full mnemonic text, e.g. "addsne"
	Base     string // Base mnemonic, e.g. "add"
	Cond     Cond   // Condition code, CondAL if no suffix
	SetFlags bool   // true if the "s" suffix is present
}

// Variants expands a base mnemonic into every conditional and, when
// statusCapable is set, status-setting spelling. The bare mnemonic comes
// first. A status-capable base yields 30 variants, any other base 15.
func Variants(base string, statusCapable bool) []Variant {
	n := 1 + len(condSuffixes)
	if statusCapable {
		n *= 2
	}

	vs := make([]Variant, 0, n)
	vs = append(vs, Variant{Mnemonic: base, Base: base, Cond: CondAL})
	if statusCapable {
		vs = append(vs, Variant{
			Mnemonic: base + StatusSuffix,
			Base:     base,
			Cond:     CondAL,
			SetFlags: true,
		})
	}

	for _, c := range Conditions() {
		vs = append(vs, Variant{Mnemonic: base + c.Suffix(), Base: base, Cond: c})
		if statusCapable {
			vs = append(vs, Variant{
				Mnemonic: base + StatusSuffix + c.Suffix(),
				Base:     base,
				Cond:     c,
				SetFlags: true,
			})
		}
	}

	return vs
}

// ParseSuffix reads the status and condition suffixes that follow base in
// mnemonic.
func ParseSuffix(base, mnemonic string, statusCapable bool) (Cond, bool, error) {
	if !strings.HasPrefix(mnemonic, base) {
		return CondAL, false, fmt.Errorf("mnemonic %q does not start with %q", mnemonic, base)
	}

	rest := mnemonic[len(base):]
	setFlags := false
	if statusCapable && strings.HasPrefix(rest, StatusSuffix) {
		setFlags = true
		rest = rest[len(StatusSuffix):]
	}

	if rest == "" {
		return CondAL, setFlags, nil
	}

	cond, err := ParseCond(rest)
	if err != nil {
		return CondAL, false, fmt.Errorf("mnemonic %q: %w", mnemonic, err)
	}

	return cond, setFlags, nil
}
