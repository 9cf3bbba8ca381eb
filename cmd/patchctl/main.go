// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/antgroup/patchkit/modules/patch"
)

type Globals struct {
	Verbose bool `name:"verbose" short:"v" help:"Enable verbose diagnostics"`
}

type Apply struct {
	PatchFile  string `arg:"" name:"patch" help:"Patch file to read" type:"path"`
	Target     string `arg:"" name:"target" help:"File to apply the patch to" type:"path"`
	Reverse    bool   `name:"reverse" short:"R" help:"Apply the patch in reverse"`
	StripLevel int    `name:"strip" short:"p" default:"1" help:"Leading path components to strip from diff paths; apply does not consult diff paths, so this has no effect"`
}

func (c *Apply) Run(g *Globals) error {
	patchBytes, err := os.ReadFile(c.PatchFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.PatchFile, err)
	}
	targetBytes, err := os.ReadFile(c.Target)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Target, err)
	}
	records, err := patch.ParsePatchText(string(patchBytes))
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.PatchFile, err)
	}
	var hunks []patch.AbstractHunk
	for _, r := range records {
		hunks = append(hunks, r.AbstractHunks()...)
	}
	result := patch.Apply(hunks, string(targetBytes), patch.ApplyOptions{
		Reverse:          c.Reverse,
		ReportedFilePath: c.Target,
	}, os.Stderr)
	if err := os.WriteFile(c.Target, []byte(result.Text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Target, err)
	}
	fmt.Fprintf(os.Stdout, "succeeded=%d merged=%d already_applied=%d already_merged=%d failed=%d\n",
		result.Successes, result.Merges, result.AlreadyApplied, result.AlreadyMerged, result.Failures)
	if result.Failures > 0 {
		os.Exit(1)
	}
	return nil
}

type Digest struct {
	PatchFile string `arg:"" name:"patch" help:"Patch file to digest" type:"path"`
}

func (c *Digest) Run(g *Globals) error {
	data, err := os.ReadFile(c.PatchFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.PatchFile, err)
	}
	records, err := patch.ParsePatchText(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.PatchFile, err)
	}
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%s  %s\n", r.Digest(), r.FilePath())
	}
	return nil
}

type App struct {
	Globals
	Apply  Apply  `cmd:"" help:"Apply a patch file to a target file"`
	Digest Digest `cmd:"" help:"Print the content digest of each record in a patch file"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("patchctl"),
		kong.Description("Parse and apply unified, context, and git binary patches"),
		kong.UsageOnError(),
	)
	if app.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if err := ctx.Run(&app.Globals); err != nil {
		fmt.Fprintln(os.Stderr, "patchctl:", err)
		os.Exit(1)
	}
}
