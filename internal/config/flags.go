package config

// This file binds CLI flags with pflag (as used by cobra commands).
// Flags write into a scratch Config; Resolve copies only the flags the user
// actually passed, so config file values hold unless overridden.
// Negated flags (e.g. --no-move) are applied the same way.

import "github.com/spf13/pflag"

// Flags collects flag values until [Flags.Resolve] merges them.
type Flags struct {
	v    Config
	sets []*pflag.FlagSet

	configPath string
	negated    negatedFlags
}

// negatedFlags holds boolean flags that invert a default.
type negatedFlags struct {
	noClean    bool
	noFix      bool
	noFileDate bool
	noMove     bool
	forceColor bool
	noColor    bool
}

// fieldCopiers copy one flag's value from the scratch config into the result.
var fieldCopiers = map[string]func(dst, src *Config){
	"exclude":       func(d, s *Config) { d.Exclude = s.Exclude },
	"delete":        func(d, s *Config) { d.DeleteNames = s.DeleteNames },
	"delete-junk":   func(d, s *Config) { d.DeleteJunk = s.DeleteJunk },
	"stamp-undated": func(d, s *Config) { d.StampUndated = s.StampUndated },
	"jobs":          func(d, s *Config) { d.Jobs = s.Jobs },
	"dry-run":       func(d, s *Config) { d.DryRun = s.DryRun },
	"journal":       func(d, s *Config) { d.JournalPath = s.JournalPath },
	"report":        func(d, s *Config) { d.ReportPath = s.ReportPath },
	"listen":        func(d, s *Config) { d.ListenAddr = s.ListenAddr },
	"verbose":       func(d, s *Config) { d.Verbose = s.Verbose },
	"log":           func(d, s *Config) { d.LogFile = s.LogFile },
}

// NewFlags returns an empty binding whose flag defaults come from
// [DefaultConfig].
func NewFlags() *Flags {
	return &Flags{v: DefaultConfig()}
}

// BindCommon registers --config, --journal, color, verbose and log flags.
func (f *Flags) BindCommon(fs *pflag.FlagSet) {
	f.sets = append(f.sets, fs)
	fs.StringVar(&f.configPath, "config", "", "Load settings from a .yaml/.yml/.toml file")
	fs.StringVar(&f.v.JournalPath, "journal", f.v.JournalPath, "Rename journal database (empty disables)")
	fs.BoolVar(&f.negated.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.negated.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&f.v.Verbose, "verbose", "v", false, "Verbose output")
	fs.StringVarP(&f.v.LogFile, "log", "l", "", "Append logs to file")
}

// BindRules registers the renaming rule toggles.
func (f *Flags) BindRules(fs *pflag.FlagSet) {
	f.sets = append(f.sets, fs)
	fs.BoolVar(&f.negated.noClean, "no-clean", false, "Keep separators and brackets")
	fs.BoolVar(&f.negated.noFix, "no-fix", false, "Do not normalize date notations")
	fs.BoolVar(&f.negated.noFileDate, "no-file-date", false, "Do not fill year/month from parent dir or mtime")
	fs.BoolVar(&f.negated.noMove, "no-move", false, "Leave the date where it was found")
	fs.BoolVar(&f.v.StampUndated, "stamp-undated", false, "Prefix names without any date using parent dir or mtime")
}

// BindRename registers discovery and apply flags.
func (f *Flags) BindRename(fs *pflag.FlagSet) {
	f.sets = append(f.sets, fs)
	fs.StringSliceVar(&f.v.Exclude, "exclude", f.v.Exclude, "Skip paths containing any of these substrings")
	fs.StringSliceVar(&f.v.DeleteNames, "delete", f.v.DeleteNames, "Junk file names removed by --delete-junk")
	fs.BoolVar(&f.v.DeleteJunk, "delete-junk", false, "Delete junk files found during discovery")
	fs.IntVarP(&f.v.Jobs, "jobs", "j", f.v.Jobs, "Planning workers")
	fs.BoolVarP(&f.v.DryRun, "dry-run", "d", false, "Preview only; do not rename or delete")
	fs.StringVar(&f.v.ReportPath, "report", "", "Write an .xlsx report of every decision")
}

// BindServe registers --listen.
func (f *Flags) BindServe(fs *pflag.FlagSet) {
	f.sets = append(f.sets, fs)
	fs.StringVar(&f.v.ListenAddr, "listen", f.v.ListenAddr, "Address for the preview service")
}

// Resolve builds the final Config: defaults, then --config, then every flag
// the user passed, then positional input dirs. The result is validated.
func (f *Flags) Resolve(args []string) (Config, error) {
	cfg := DefaultConfig()
	if f.configPath != "" {
		if err := Load(f.configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	for name, copyField := range fieldCopiers {
		if f.changed(name) {
			copyField(&cfg, &f.v)
		}
	}
	f.applyNegated(&cfg)

	if len(args) > 0 {
		cfg.InputDirs = make([]string, 0, len(args))
		for _, a := range args {
			cfg.InputDirs = append(cfg.InputDirs, NormalizeDirArg(a))
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ConfigPath returns the --config value.
func (f *Flags) ConfigPath() string { return f.configPath }

func (f *Flags) changed(name string) bool {
	for _, fs := range f.sets {
		if fl := fs.Lookup(name); fl != nil && fl.Changed {
			return true
		}
	}
	return false
}

// applyNegatedFlags copies negated flag values into cfg (e.g. noMove -> MoveDate=false).
func (f *Flags) applyNegated(cfg *Config) {
	n := &f.negated
	if n.noClean {
		cfg.CleanNames = false
	}
	if n.noFix {
		cfg.FixDates = false
	}
	if n.noFileDate {
		cfg.AddFileDate = false
	}
	if n.noMove {
		cfg.MoveDate = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}
