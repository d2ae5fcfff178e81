// Package main provides tests for the tsffi CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/tsffi/internal/cli"
)

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expected := []string{"tsffi <file_name>", "--source-map", "--minify", "--watch", "--config"}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("help output should contain '%s', got: %s", want, output)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version flag error = %v", err)
	}

	if !strings.Contains(buf.String(), "esbuild") {
		t.Errorf("version output should mention esbuild, got: %s", buf.String())
	}
}
