package comps

// EverythingName is the name of the synthesized component holding
// every installable package.
const EverythingName = "Everything"

// These packages are never part of Everything: X servers for
// specific cards, alternate kernels and input methods that conflict
// with each other.
var excluded = map[string]struct{}{
	"XFree86-3DLabs":    {},
	"XFree86-8514":      {},
	"XFree86-AGX":       {},
	"XFree86-I128":      {},
	"XFree86-Mach32":    {},
	"XFree86-Mach64":    {},
	"XFree86-Mach8":     {},
	"XFree86-Mono":      {},
	"XFree86-P9000":     {},
	"XFree86-S3":        {},
	"XFree86-S3V":       {},
	"XFree86-SVGA":      {},
	"XFree86-VGA16":     {},
	"XFree86-W32":       {},
	"kernel":            {},
	"kernel-BOOT":       {},
	"kernel-smp":        {},
	"kinput2-canna":     {},
	"kinput-canna-wnn4": {},
	"kinput2-wnn4":      {},
	"kinput2-wnn6":      {},
}

// IsExcluded reports whether the package is kept out of Everything.
func IsExcluded(name string) bool {
	_, ok := excluded[name]
	return ok
}
