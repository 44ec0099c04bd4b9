package main

import (
	"testing"

	"github.com/harrison/compass/internal/cmd"
)

func TestRootCommandConstruction(t *testing.T) {
	root := cmd.NewRootCommand()
	if root.Use != "compass" {
		t.Errorf("Use = %q, want %q", root.Use, "compass")
	}

	want := []string{"open", "decide", "principles", "history", "credential"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
