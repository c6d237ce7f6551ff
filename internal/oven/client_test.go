package oven_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bakeset/internal/oven"
)

// fakeExecutor records the invocation and fabricates bake artifacts the way
// the real tool would.
type fakeExecutor struct {
	binary  string
	args    []string
	outputs []string
	err     error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, onOutput func(string)) error {
	f.binary = binary
	f.args = args
	if f.err != nil {
		return f.err
	}
	outDir := argValue(args, "-o")
	for _, name := range f.outputs {
		path := filepath.Join(outDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte("baked"), 0o644); err != nil {
			return err
		}
	}
	if onOutput != nil {
		onOutput("Baking complete")
	}
	return nil
}

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestBakedName(t *testing.T) {
	if got := oven.BakedName("sphere.fbx", oven.TypeFBX); got != "sphere.baked.fbx" {
		t.Fatalf("unexpected mesh artifact name: %q", got)
	}
	if got := oven.BakedName("sky.png", oven.TypeTexture); got != "sky.texmeta.json" {
		t.Fatalf("unexpected texture artifact name: %q", got)
	}
}

func TestBakeReturnsPrimaryArtifact(t *testing.T) {
	exec := &fakeExecutor{outputs: []string{"sphere.baked.fbx", "sphere_texture.ktx"}}
	client, err := oven.New("/opt/hifi/oven", 60, oven.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "baked", "sphere.fbx")
	path, err := client.Bake(context.Background(), "/content/assets/sphere.fbx", outDir, oven.TypeFBX)
	if err != nil {
		t.Fatalf("Bake returned error: %v", err)
	}
	if path != filepath.Join(outDir, "sphere.baked.fbx") {
		t.Fatalf("unexpected artifact path: %q", path)
	}
	if exec.binary != "/opt/hifi/oven" {
		t.Fatalf("unexpected binary: %q", exec.binary)
	}
	want := []string{"-i", "/content/assets/sphere.fbx", "-o", outDir, "-t", "fbx"}
	if len(exec.args) != len(want) {
		t.Fatalf("unexpected args: %v", exec.args)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("arg %d: got %q want %q", i, exec.args[i], want[i])
		}
	}
}

func TestBakeMissingArtifact(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := oven.New("oven", 60, oven.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.Bake(context.Background(), "/content/assets/sphere.fbx", t.TempDir(), oven.TypeFBX)
	if err == nil {
		t.Fatal("expected error when oven produces no artifact")
	}
}

func TestBakePropagatesExecutorError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 1")}
	client, err := oven.New("oven", 60, oven.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.Bake(context.Background(), "/content/assets/sphere.fbx", t.TempDir(), oven.TypeFBX)
	if err == nil || !errors.Is(err, exec.err) {
		t.Fatalf("expected wrapped executor error, got %v", err)
	}
}

func TestBakeAllReturnsEveryArtifact(t *testing.T) {
	exec := &fakeExecutor{outputs: []string{
		filepath.Join("sphere", "baked", "sphere.baked.fbx"),
		filepath.Join("sphere", "baked", "wood.ktx"),
	}}
	client, err := oven.New("oven", 60, oven.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	outDir := t.TempDir()
	files, err := client.BakeAll(context.Background(), "/content/assets/sphere.fbx", outDir, oven.TypeFBX)
	if err != nil {
		t.Fatalf("BakeAll returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 artifacts, got %v", files)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := oven.New("  ", 60); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
