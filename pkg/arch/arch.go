// Package arch scores package architectures against the machine the
// installer is running on.
package arch

import (
	"runtime"

	"github.com/the-maldridge/ncomps/pkg/types"
)

// NoArch is the architecture of packages that run everywhere.  A
// header without an architecture is scored as NoArch.
const NoArch = "noarch"

// A Scorer maps an architecture to a non-negative score.  Zero means
// the architecture cannot be installed on this system, larger is
// better.
type Scorer func(arch string) int

// compat lists, per machine, the architectures it can run, best
// first.
var compat = map[string][]string{
	"x86_64":  {"x86_64", "i686", "i586", "i486", "i386", NoArch},
	"i686":    {"i686", "i586", "i486", "i386", NoArch},
	"i586":    {"i586", "i486", "i386", NoArch},
	"i486":    {"i486", "i386", NoArch},
	"i386":    {"i386", NoArch},
	"aarch64": {"aarch64", NoArch},
	"armv7l":  {"armv7l", "armv6l", "armv5tel", NoArch},
	"armv6l":  {"armv6l", "armv5tel", NoArch},
	"ppc64le": {"ppc64le", NoArch},
	"ppc64":   {"ppc64", "ppc", NoArch},
	"ppc":     {"ppc", NoArch},
	"s390x":   {"s390x", "s390", NoArch},
	"riscv64": {"riscv64", NoArch},
}

var goarch = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "armv7l",
	"ppc64le": "ppc64le",
	"ppc64":   "ppc64",
	"s390x":   "s390x",
	"riscv64": "riscv64",
}

// Machine returns the machine name of the running process in the
// spelling that package repositories use.
func Machine() string {
	if m, ok := goarch[runtime.GOARCH]; ok {
		return m
	}
	return runtime.GOARCH
}

// Compatible returns the architectures the machine can run, best
// first.  Unknown machines are compatible with themselves and noarch.
func Compatible(machine string) types.ArchList {
	list, ok := compat[machine]
	if !ok {
		return types.ArchList{machine, NoArch}
	}
	out := make(types.ArchList, len(list))
	copy(out, list)
	return out
}

// ForMachine returns a scorer for the given machine.
func ForMachine(machine string) Scorer {
	return ForList(Compatible(machine))
}

// ForList returns a scorer that prefers architectures earlier in the
// list.
func ForList(list types.ArchList) Scorer {
	scores := make(map[string]int, len(list))
	for i, a := range list {
		if _, seen := scores[a]; !seen {
			scores[a] = len(list) - i
		}
	}
	return func(a string) int {
		if a == "" {
			a = NoArch
		}
		return scores[a]
	}
}
