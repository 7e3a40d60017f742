package cli

import (
	"strings"

	"github.com/kac-dev/kac/internal/app"
	"github.com/spf13/pflag"
)

// optionalNoValue is what pflag passes to Set for a flag given without "=value".
const optionalNoValue = "true"

// OptionalValue is a pflag.Value for flags such as --release that work both
// bare and with a value. It records the result as an app.Optional:
//
//	--release         Flag
//	--release=1.2.0   Value("1.2.0")
//	--release=false   Absent
type OptionalValue struct {
	opt *app.Optional
}

var _ pflag.Value = (*OptionalValue)(nil)

func newOptionalValue(opt *app.Optional) *OptionalValue {
	return &OptionalValue{opt: opt}
}

func (v *OptionalValue) String() string {
	if v.opt == nil || v.opt.Presence != app.Value {
		return ""
	}
	return v.opt.Text
}

func (v *OptionalValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", optionalNoValue:
		*v.opt = app.NewFlag()
	case "false":
		*v.opt = app.Optional{}
	default:
		*v.opt = app.NewValue(strings.TrimSpace(s))
	}
	return nil
}

func (v *OptionalValue) Type() string {
	return "version"
}

// addOptionalFlag registers an OptionalValue flag on fs.
func addOptionalFlag(fs *pflag.FlagSet, opt *app.Optional, name, usage string) {
	fs.Var(newOptionalValue(opt), name, usage)
	fs.Lookup(name).NoOptDefVal = optionalNoValue
}

// flagBeforePositional returns the name of the flag written directly in
// front of the first positional argument of raw, or "" when the argument
// does not follow a flag. Flags that take a separate value skip it.
func flagBeforePositional(fs *pflag.FlagSet, raw []string) string {
	prev := ""
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if tok == "--" {
			return ""
		}
		if len(tok) < 2 || tok[0] != '-' {
			return prev
		}

		var flag *pflag.Flag
		inline := false
		if long, ok := strings.CutPrefix(tok, "--"); ok {
			var name string
			name, _, inline = strings.Cut(long, "=")
			flag = fs.Lookup(name)
		} else if short := tok[1:]; len(short) == 1 {
			flag = fs.ShorthandLookup(short)
		}

		prev = ""
		switch {
		case flag == nil || inline:
		case flag.NoOptDefVal == "":
			i++
		default:
			prev = flag.Name
		}
	}
	return ""
}

// bindPositional assigns a lone positional argument to the optional flag
// written right before it, so that "kac --release 1.2.0" means
// "kac --release=1.2.0". after is the name of that flag, see
// flagBeforePositional. The flag must still be bare.
func bindPositional(args []string, after string, release, create *app.Optional) bool {
	if len(args) != 1 {
		return len(args) == 0
	}

	var opt *app.Optional
	switch after {
	case "release":
		opt = release
	case "create":
		opt = create
	default:
		return false
	}
	if opt.Presence != app.Flag {
		return false
	}
	*opt = app.NewValue(args[0])
	return true
}
