package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aegistudio/shred"
)

var configFile string

// config is the merged view of the flags, the SHRED_*
// environment variables and the config file, in this order
// of precedence.
type config struct {
	Targets    []string
	Recursive  bool
	Unlink     bool
	Zero       bool
	Force      bool
	Verbose    bool
	BufferSize int
	Passes     int
	Parallel   int
}

func registerFlags(flags *pflag.FlagSet) {
	flags.BoolP("recursive", "r", false,
		"shred the content of directories recursively")
	flags.BoolP("recurse", "R", false, "same as --recursive")
	_ = flags.MarkHidden("recurse")
	flags.BoolP("unlink", "u", false,
		"remove the files after all of them are overwritten")
	flags.BoolP("zero", "z", false,
		"add a final overwrite with zeros to hide shredding")
	flags.BoolP("force", "f", false,
		"change permissions to allow writing and removal if necessary")
	flags.BoolP("verbose", "v", false, "show progress")
	flags.IntP("buffer", "B", shred.DefaultBufferSize,
		"size of the write buffer, -1 for the preferred block size")
	flags.IntP("passes", "N", shred.DefaultPasses,
		"number of overwrite passes")
	flags.IntP("parallel", "P", shred.DefaultParallel,
		"number of files overwritten at the same time")
}

func rootFlags() *pflag.FlagSet {
	return rootCmd.Flags()
}

func newViper(flags *pflag.FlagSet, file string) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}
	v.SetEnvPrefix("shred")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %q", file)
		}
	}
	return v, nil
}

func readConfig(v *viper.Viper, args []string) (*config, error) {
	cfg := &config{
		Targets:    uniqueTargets(args),
		Recursive:  v.GetBool("recursive") || v.GetBool("recurse"),
		Unlink:     v.GetBool("unlink"),
		Zero:       v.GetBool("zero"),
		Force:      v.GetBool("force"),
		Verbose:    v.GetBool("verbose"),
		BufferSize: v.GetInt("buffer"),
		Passes:     v.GetInt("passes"),
		Parallel:   v.GetInt("parallel"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if len(c.Targets) == 0 {
		return errors.New("no file specified")
	}
	if c.BufferSize != shred.DefaultBufferSize &&
		(c.BufferSize < 2 || c.BufferSize > shred.MaxBufferSize) {
		return errors.Errorf(
			"invalid buffer size %d, must be -1 or between 2 and %d",
			c.BufferSize, shred.MaxBufferSize)
	}
	if c.Passes < 0 {
		return errors.Errorf(
			"invalid number of passes %d, must not be negative", c.Passes)
	}
	if c.Parallel < 1 {
		return errors.Errorf(
			"invalid parallelism %d, must be at least 1", c.Parallel)
	}
	return nil
}

func (c *config) options() []shred.Option {
	return []shred.Option{
		shred.WithRecursive(c.Recursive),
		shred.WithZeroPass(c.Zero),
		shred.WithForce(c.Force),
		shred.WithBufferSize(c.BufferSize),
		shred.WithPasses(c.Passes),
		shred.WithParallel(c.Parallel),
	}
}

// uniqueTargets drops the repeated arguments, keeping the
// order of their first occurrence.
func uniqueTargets(args []string) []string {
	seen := make(map[string]struct{}, len(args))
	var result []string
	for _, arg := range args {
		if _, ok := seen[arg]; ok {
			continue
		}
		seen[arg] = struct{}{}
		result = append(result, arg)
	}
	return result
}

func init() {
	registerFlags(rootCmd.Flags())
	rootCmd.PersistentFlags().StringVar(
		&configFile, "config", configFile,
		"read defaults from this config file")
}
