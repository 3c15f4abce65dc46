// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Smartmontools drivedb.h database to YAML format converter, producing the drive database read by
// ata_id --drivedb.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dswarbrick/ataid/drivedb"
)

const (
	defaultDrivedbURL = "https://www.smartmontools.org/export/HEAD/trunk/smartmontools/drivedb.h"
)

func openSource(url, inFilename string, log logrus.FieldLogger) (io.ReadCloser, error) {
	if inFilename != "" {
		log.WithField("file", inFilename).Info("reading local drivedb.h")
		return os.Open(inFilename)
	}

	log.WithField("url", url).Info("fetching drivedb.h")

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	return resp.Body, nil
}

func convert(src io.Reader, outFilename string, log logrus.FieldLogger) error {
	header, db := drivedb.ConvertHeader(src)
	log.WithField("entries", len(db.Drives)).Info("parsed drivedb.h")

	destFile, err := os.Create(outFilename)
	if err != nil {
		return err
	}

	if err := db.Write(destFile, header); err != nil {
		destFile.Close()
		return err
	}

	return destFile.Close()
}

func newRootCmd() *cobra.Command {
	var (
		drivedbURL              string
		inFilename, outFilename string
	)

	log := logrus.New()

	cmd := &cobra.Command{
		Use:          "mkdrivedb",
		Short:        "Convert smartmontools drivedb.h to YAML",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(drivedbURL, inFilename, log)
			if err != nil {
				return err
			}

			defer src.Close()

			if err := convert(src, outFilename, log); err != nil {
				return err
			}

			log.WithField("file", outFilename).Info("wrote drive database")
			return nil
		},
	}

	cmd.Flags().StringVar(&drivedbURL, "url", defaultDrivedbURL, "Optional drivedb URL")
	cmd.Flags().StringVar(&inFilename, "in", "", "Optional path to local drivedb.h")
	cmd.Flags().StringVar(&outFilename, "out", "drivedb.yaml", "Output .yaml filename")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
