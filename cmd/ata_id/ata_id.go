// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// ata_id reports the identity and ATA features of a block device as udev properties.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/dswarbrick/ataid"
	"github.com/dswarbrick/ataid/ata"
	"github.com/dswarbrick/ataid/drivedb"
)

// Exit codes. udev treats any non-zero status of an IMPORT{program} as "no properties".
const (
	exitUsage      = 1
	exitNoIdentity = 2
	exitDevice     = 3
)

// exitError carries the process exit status for err.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

type options struct {
	Export  bool          `mapstructure:"export"`
	Format  string        `mapstructure:"format"`
	Timeout time.Duration `mapstructure:"timeout"`
	DriveDb string        `mapstructure:"drivedb"`
	Debug   bool          `mapstructure:"debug"`
}

// identifyFunc returns the properties of the device node at path.
type identifyFunc func(path string, cfg ataid.Config, log logrus.FieldLogger) (ata.Properties, error)

func identifyDevice(path string, cfg ataid.Config, log logrus.FieldLogger) (ata.Properties, error) {
	// O_NONBLOCK allows opening CD/DVD drives without media.
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, &exitError{fmt.Errorf("cannot open %s: %w", path, err), exitDevice}
	}

	defer unix.Close(fd)

	props, err := ataid.NewProber(uintptr(fd), cfg, log).Identify()
	if err != nil {
		return nil, &exitError{err, exitNoIdentity}
	}

	return props, nil
}

func addFlags(flags *pflag.FlagSet) {
	flags.BoolP("export", "x", false, "Print all properties as KEY=VALUE (same as --format=export)")
	flags.String("format", "id", "Output format: "+strings.Join(ataid.FormatNames(), ", "))
	flags.Duration("timeout", 30*time.Second, "Timeout for each SG_IO command")
	flags.String("drivedb", "", "Optional YAML drive database for ID_ATA_DRIVE_FAMILY")
	flags.Bool("debug", false, "Enable debug logging")
}

func readOptions(flags *pflag.FlagSet) (options, error) {
	var opts options

	v := viper.New()
	v.SetEnvPrefix("ATA_ID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return opts, err
	}

	err := v.Unmarshal(&opts, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)))

	return opts, err
}

func newRootCmd(identify identifyFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ata_id [flags] <device>",
		Short: "Identify an ATA device through SG_IO",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &exitError{errors.New("no device specified"), exitUsage}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readOptions(cmd.Flags())
			if err != nil {
				return &exitError{err, exitUsage}
			}

			if opts.Export {
				opts.Format = "export"
			}

			write, ok := ataid.Formats[opts.Format]
			if !ok {
				return &exitError{fmt.Errorf("unknown output format %q", opts.Format), exitUsage}
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			if opts.Debug {
				log.SetLevel(logrus.DebugLevel)
			}

			props, err := identify(args[0], ataid.Config{Timeout: opts.Timeout}, log.WithField("device", args[0]))
			if err != nil {
				return err
			}

			if opts.DriveDb != "" {
				db, err := drivedb.OpenDriveDb(opts.DriveDb)
				if err != nil {
					log.WithError(err).Warn("cannot load drive database")
				} else {
					props = ataid.AddDriveFamily(props, &db, log)
				}
			}

			return write(cmd.OutOrStdout(), props)
		},
	}

	addFlags(cmd.Flags())

	return cmd
}

func run(args []string, stdout, stderr io.Writer, identify identifyFunc) int {
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(identify)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}

	return exitUsage
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, identifyDevice))
}
