package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solidkit/boxcad"
	"github.com/solidkit/boxcad/cache"
	"github.com/solidkit/boxcad/kernel"
	"github.com/solidkit/boxcad/paramfile"
)

var (
	buildOutput  string
	buildMesh    bool
	buildPreview bool
	buildNoCache bool
)

var buildCmd = &cobra.Command{
	Use:   "build <params.yaml>",
	Short: "Build a model from a parameter file and export it as STEP",
	Long: `Build reads a YAML parameter file, resolves any expression fields,
synthesizes the solid model and writes the STEP exchange file.

Repeated builds of identical parameters are served from the local export
cache unless --no-cache is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), args[0])
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output STEP file (default: parameter file name with .step)")
	buildCmd.Flags().BoolVar(&buildMesh, "mesh", false, "also write a triangulated preview mesh (.obj)")
	buildCmd.Flags().BoolVar(&buildPreview, "preview", false, "also write a top-view profile snapshot (.png)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "bypass the export cache")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(ctx context.Context, paramPath string) error {
	params, err := paramfile.Load(paramPath)
	if err != nil {
		return fmt.Errorf("loading parameters: %w", err)
	}

	out := buildOutput
	if out == "" {
		out = strings.TrimSuffix(paramPath, filepath.Ext(paramPath)) + ".step"
	}

	data, mesh, err := buildWithCache(ctx, params, buildMesh)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(data))

	if buildMesh && mesh != nil {
		objPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".obj"
		if err := writeOBJ(objPath, mesh); err != nil {
			return fmt.Errorf("writing %s: %w", objPath, err)
		}
		fmt.Printf("wrote %s (%d triangles)\n", objPath, len(mesh.Indices)/3)
	}

	if buildPreview {
		pngPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".png"
		png, err := boxcad.ProfileSnapshot(params, viper.GetInt("preview.size"))
		if err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
		if err := os.WriteFile(pngPath, png, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", pngPath, err)
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	return nil
}

// buildWithCache consults the export cache before running the pipeline. Cache
// failures degrade to an uncached build; they never fail the command.
func buildWithCache(ctx context.Context, params boxcad.Params, wantMesh bool) ([]byte, *boxcad.Mesh, error) {
	if buildNoCache || wantMesh {
		return runPipeline(params, wantMesh)
	}

	k, err := kernel.Default()
	if err != nil {
		return nil, nil, err
	}
	store, err := cache.Open(viper.GetString("cache.path"))
	if err != nil {
		slog.Warn("export cache unavailable", "error", err)
		return runPipeline(params, false)
	}
	defer store.Close()

	key := cache.Key(params, k.Name(), k.Version())
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		slog.Debug("cache hit", "key", key)
		return data, nil, nil
	}

	data, _, err := runPipeline(params, false)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Put(ctx, key, data, k.Name(), k.Version()); err != nil {
		slog.Warn("failed to record export in cache", "error", err)
	}
	return data, nil, nil
}

func runPipeline(params boxcad.Params, wantMesh bool) ([]byte, *boxcad.Mesh, error) {
	if wantMesh {
		return boxcad.BuildModelWithMesh(params)
	}
	data, err := boxcad.BuildModel(params)
	return data, nil, err
}

// writeOBJ dumps the preview mesh in Wavefront OBJ form, which most mesh
// viewers open directly.
func writeOBJ(path string, m *boxcad.Mesh) error {
	var sb strings.Builder
	sb.WriteString("# boxcad preview mesh\n")
	for i := 0; i+2 < len(m.Positions); i += 3 {
		fmt.Fprintf(&sb, "v %g %g %g\n", m.Positions[i], m.Positions[i+1], m.Positions[i+2])
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		// OBJ indices are 1-based.
		fmt.Fprintf(&sb, "f %d %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
