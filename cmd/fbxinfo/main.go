package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mirai3d/fbxscene/fbx"
	yaml "gopkg.in/yaml.v2"
)

// loadConfig is the optional YAML sidecar controlling which object
// categories to skip, mirroring the flag/yaml split used by the rest of
// this codebase's command-line tools.
type loadConfig struct {
	IgnoreGeometry   bool `yaml:"ignore_geometry"`
	IgnoreMaterials  bool `yaml:"ignore_materials"`
	IgnoreTextures   bool `yaml:"ignore_textures"`
	IgnoreVideos     bool `yaml:"ignore_videos"`
	IgnoreSkin       bool `yaml:"ignore_skin"`
	IgnoreAnimations bool `yaml:"ignore_animations"`
}

func (c loadConfig) flags() fbx.LoadFlags {
	var f fbx.LoadFlags
	if c.IgnoreGeometry {
		f |= fbx.IgnoreGeometry
	}
	if c.IgnoreMaterials {
		f |= fbx.IgnoreMaterials
	}
	if c.IgnoreTextures {
		f |= fbx.IgnoreTextures
	}
	if c.IgnoreVideos {
		f |= fbx.IgnoreVideos
	}
	if c.IgnoreSkin {
		f |= fbx.IgnoreSkin
	}
	if c.IgnoreAnimations {
		f |= fbx.IgnoreAnimations
	}
	return f
}

func loadConfigFile(path string) (loadConfig, error) {
	var c loadConfig
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(b, &c)
	return c, err
}

func main() {
	configPath := flag.String("config", "", "optional YAML file selecting which object categories to skip")
	dumpTree := flag.Bool("dump", false, "dump the raw element tree instead of the scene summary")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fbxinfo [-config file.yaml] [-dump] <file.fbx>")
		os.Exit(2)
	}

	cfg, err := loadConfigFile(*configPath)
	if err != nil {
		log.Fatalf("fbxinfo: reading config: %v", err)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("fbxinfo: %v", err)
	}

	scene, err := fbx.Load(data, fbx.LoadOptions{Flags: cfg.flags()})
	if err != nil {
		log.Fatalf("fbxinfo: load failed: %v", err)
	}

	if *dumpTree {
		var sb strings.Builder
		scene.Root().Dump(&sb, 0, false)
		fmt.Print(sb.String())
		return
	}

	printSummary(scene)
}

func printSummary(scene *fbx.Scene) {
	fmt.Printf("models: %d (roots: %d)\n", len(scene.Models()), len(scene.RootModels()))
	fmt.Printf("geometries: %d\n", len(scene.Geometries()))
	fmt.Printf("materials: %d\n", len(scene.Materials()))
	fmt.Printf("animation stacks: %d\n", len(scene.AnimationStacks()))
	fmt.Printf("frame rate: %.3f fps\n", scene.FrameRate())

	for _, m := range scene.Models() {
		g := m.Geometry()
		vertCount := 0
		if g != nil {
			vertCount = len(g.Vertices)
		}
		fmt.Printf("  model %d %q kind=%s vertices=%d\n", m.ID(), m.Name(), m.Kind(), vertCount)
	}

	for _, stack := range scene.AnimationStacks() {
		fmt.Printf("  stack %d %q layers=%d\n", stack.ID(), stack.Name(), len(stack.Layers()))
	}

	if msg := scene.LastError(); msg != "" {
		fmt.Fprintf(os.Stderr, "warnings (last): %s\n", msg)
	}
}
