package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/plateforge/plateforge/pkg/plate"
)

func testCLI() *CLI {
	return &CLI{
		Logger: newLogger(io.Discard, LogInfo),
		Config: DefaultConfig(),
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildPipelineOptions(t *testing.T) {
	c := testCLI()
	c.Config.OutputDir = "/data/out"
	c.Config.Format = "jpg"
	c.Config.Workers = 2

	opts := &generateOpts{
		count:         10,
		types:         "ordinary_small,trailer",
		provinces:     "京,粤",
		maxTransforms: -1,
		intensity:     0.5,
	}

	pipeOpts, err := c.buildPipelineOptions(opts)
	if err != nil {
		t.Fatalf("buildPipelineOptions: %v", err)
	}

	if len(pipeOpts.Types) != 2 || pipeOpts.Types[1] != plate.TypeTrailer {
		t.Errorf("Types = %v", pipeOpts.Types)
	}
	if len(pipeOpts.Provinces) != 2 {
		t.Errorf("Provinces = %v", pipeOpts.Provinces)
	}

	// Config fills gaps the flags left open
	if pipeOpts.OutDir != "/data/out" {
		t.Errorf("OutDir = %q", pipeOpts.OutDir)
	}
	if pipeOpts.Format != "jpg" {
		t.Errorf("Format = %q", pipeOpts.Format)
	}
	if pipeOpts.Workers != 2 {
		t.Errorf("Workers = %d", pipeOpts.Workers)
	}
	if pipeOpts.IntensityScale != 0.5 {
		t.Errorf("IntensityScale = %g", pipeOpts.IntensityScale)
	}
}

func TestBuildPipelineOptionsFlagBeatsConfig(t *testing.T) {
	c := testCLI()
	c.Config.OutputDir = "/data/out"

	opts := &generateOpts{count: 1, maxTransforms: -1, intensity: 1.0, output: "elsewhere"}
	pipeOpts, err := c.buildPipelineOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	if pipeOpts.OutDir != "elsewhere" {
		t.Errorf("OutDir = %q, flag should win over config", pipeOpts.OutDir)
	}
}

func TestBuildPipelineOptionsInvalid(t *testing.T) {
	c := testCLI()
	opts := &generateOpts{count: 1, maxTransforms: -1, intensity: 1.0, types: "spaceship"}
	if _, err := c.buildPipelineOptions(opts); err == nil {
		t.Error("expected error for unknown plate type")
	}
}

func TestAugmentedPath(t *testing.T) {
	tests := []struct {
		input    string
		outDir   string
		v        int
		variants int
		want     string
	}{
		{"plates/a.png", "", 0, 1, "plates/a_aug.png"},
		{"plates/a.png", "out", 0, 1, "out/a_aug.png"},
		{"a.jpg", "", 0, 3, "a_aug.jpg"},
		{"a.jpg", "", 2, 3, "a_aug3.jpg"},
	}
	for _, tt := range tests {
		if got := augmentedPath(tt.input, tt.outDir, tt.v, tt.variants); got != tt.want {
			t.Errorf("augmentedPath(%q, %q, %d, %d) = %q, want %q",
				tt.input, tt.outDir, tt.v, tt.variants, got, tt.want)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := testCLI()
	root := c.RootCommand()

	want := []string{"generate", "augment", "effects", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
