package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/solidkit/boxcad/paramfile"
)

var initNoInteractive bool

var initCmd = &cobra.Command{
	Use:   "init [params.yaml]",
	Short: "Create a parameter file with an interactive wizard",
	Long: `Init walks through the model parameters and writes a starter YAML
file. The written file is a plain document: any numeric field can later
be replaced with an expression over the other fields.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "params.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		return runInit(path)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initNoInteractive, "no-interactive", false, "write a default parameter file without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(path string) error {
	doc := paramfile.Document{
		Shape:         "box",
		InsideWidth:   paramfile.Num(40),
		InsideDepth:   paramfile.Num(30),
		InsideHeight:  paramfile.Num(20),
		Clearance:     paramfile.Num(0.2),
		ThicknessMode: "uniform",
		Thickness:     paramfile.Num(2),
	}

	if !initNoInteractive {
		if err := runWizard(&doc); err != nil {
			return err
		}
	}

	if err := paramfile.Save(path, &doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	fmt.Printf("Run 'boxcad build %s' to export the model.\n", path)
	return nil
}

func runWizard(doc *paramfile.Document) error {
	err := huh.NewSelect[string]().
		Title("Shape").
		Options(
			huh.NewOption("Box (rectangular)", "box"),
			huh.NewOption("Cylinder (circular)", "cylinder"),
		).
		Value(&doc.Shape).
		Run()
	if err != nil {
		return err
	}

	if err := promptDim("Inside width (mm)", &doc.InsideWidth); err != nil {
		return err
	}
	if doc.Shape == "box" {
		if err := promptDim("Inside depth (mm)", &doc.InsideDepth); err != nil {
			return err
		}
	}
	if err := promptDim("Inside height (mm)", &doc.InsideHeight); err != nil {
		return err
	}

	err = huh.NewSelect[string]().
		Title("Wall thickness").
		Options(
			huh.NewOption("Uniform (one value for walls, top and bottom)", "uniform"),
			huh.NewOption("Custom (separate wall, top and bottom values)", "custom"),
		).
		Value(&doc.ThicknessMode).
		Run()
	if err != nil {
		return err
	}
	if doc.ThicknessMode == "custom" {
		doc.WallThickness = paramfile.Num(2)
		doc.TopThickness = paramfile.Num(2)
		doc.BottomThickness = paramfile.Num(2)
		if err := promptDim("Wall thickness (mm)", &doc.WallThickness); err != nil {
			return err
		}
		if err := promptDim("Top thickness (mm)", &doc.TopThickness); err != nil {
			return err
		}
		if err := promptDim("Bottom thickness (mm)", &doc.BottomThickness); err != nil {
			return err
		}
	} else if err := promptDim("Thickness (mm)", &doc.Thickness); err != nil {
		return err
	}

	err = huh.NewConfirm().
		Title("Include a clearance-fitted lid?").
		Value(&doc.IncludeLid).
		Run()
	if err != nil {
		return err
	}
	if doc.IncludeLid {
		if err := promptDim("Lid clearance (mm)", &doc.Clearance); err != nil {
			return err
		}
	}

	if doc.Shape == "box" {
		err = huh.NewConfirm().
			Title("Round the inside corners?").
			Value(&doc.IncludeInsideRadius).
			Run()
		if err != nil {
			return err
		}
		if doc.IncludeInsideRadius {
			doc.InsideRadius = paramfile.Num(3)
			if err := promptDim("Inside corner radius (mm)", &doc.InsideRadius); err != nil {
				return err
			}
		}
	}
	return nil
}

// promptDim edits a numeric field through a text input. The wizard only
// writes plain numbers; expression fields are for hand-edited files.
func promptDim(title string, v *paramfile.Value) error {
	s := strconv.FormatFloat(v.Float(), 'g', -1, 64)
	err := huh.NewInput().
		Title(title).
		Value(&s).
		Validate(func(in string) error {
			f, err := strconv.ParseFloat(in, 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", in)
			}
			if f <= 0 {
				return fmt.Errorf("must be positive")
			}
			return nil
		}).
		Run()
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*v = paramfile.Num(f)
	return nil
}
