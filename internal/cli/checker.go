package cli

import (
	"bytes"
	"os"

	"github.com/toyz/routegen/internal/errors"
)

// StaleFile describes a generated file that does not match its sources
type StaleFile struct {
	Path   string
	Reason string
}

// Checker reports generated files that are missing, outdated or orphaned
type Checker struct {
	generator *Generator
}

// NewChecker creates a checker that renders through generator
func NewChecker(generator *Generator) *Checker {
	return &Checker{generator: generator}
}

// Check renders every matched package in memory and compares the result
// with what is on disk. It never writes.
func (c *Checker) Check(config Config) ([]StaleFile, error) {
	plans, err := c.generator.Plan(&config)
	if err != nil {
		return nil, err
	}

	var stale []StaleFile
	for _, plan := range plans {
		if plan.File == nil {
			generated, err := IsGeneratedFile(plan.OutputPath)
			if err != nil {
				return nil, err
			}
			if generated {
				stale = append(stale, StaleFile{Path: plan.OutputPath, Reason: "package no longer declares routes"})
			}
			continue
		}

		existing, err := os.ReadFile(plan.OutputPath)
		switch {
		case os.IsNotExist(err):
			stale = append(stale, StaleFile{Path: plan.OutputPath, Reason: "missing"})
		case err != nil:
			return nil, errors.WrapFileSystemError("read", plan.OutputPath, err)
		case !bytes.Equal(existing, []byte(plan.File.Content)):
			stale = append(stale, StaleFile{Path: plan.OutputPath, Reason: "out of date"})
		}
	}
	return stale, nil
}
