package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// wuppieVersion reports the module's build version if the binary was built
// with `go install module@version`, falling back to "(devel)" for a local
// build, which is what debug.ReadBuildInfo reports in that case.
func wuppieVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(unknown)"
	}
	if info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "wuppiefuzz version: %s\n", wuppieVersion())
			return nil
		},
	}
}

func newLicenseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "license",
		Short: "Print the license and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wuppiefuzz version: %s\n", wuppieVersion())
			fmt.Fprintln(out, "===============================================================================")
			fmt.Fprintln(out, "                                LICENSE NOTICE")
			fmt.Fprintln(out, "===============================================================================")
			fmt.Fprintln(out, licenseText)
			fmt.Fprintln(out, "===============================================================================")
			return nil
		},
	}
}

func newSBOMCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sbom",
		Short: "Print the software bill of materials and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wuppiefuzz version: %s\n", wuppieVersion())
			fmt.Fprintln(out, "Software Bill of Materials")
			fmt.Fprintln(out, "--------------------------")

			info, ok := debug.ReadBuildInfo()
			if !ok {
				fmt.Fprintln(out, "build info unavailable")
				return nil
			}
			for _, dep := range info.Deps {
				fmt.Fprintf(out, "%s %s\n", dep.Path, dep.Version)
			}
			return nil
		},
	}
}

const licenseText = `MIT License

Copyright (c) 2026 TNO-S3

Permission is hereby granted, free of charge, to any person obtaining a
copy of this software and associated documentation files (the "Software"),
to deal in the Software without restriction, including without limitation
the rights to use, copy, modify, merge, publish, distribute, sublicense,
and/or sell copies of the Software, subject to the above copyright notice
being included in all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED.`
