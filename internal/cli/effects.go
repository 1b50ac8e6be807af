package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/plateforge/plateforge/pkg/effects/catalog"
	"github.com/plateforge/plateforge/pkg/effects/compose"
)

// effectsCommand creates the effects management command group.
func (c *CLI) effectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects",
		Short: "Inspect and tune the effect catalog",
		Long: `Inspect and tune the effect catalog.

The catalog controls which degradation effects generation runs can pick,
how likely each one is, and how strong it gets. Changes are saved to the
config directory and picked up by every later run.`,
	}

	cmd.AddCommand(c.effectsListCommand())
	cmd.AddCommand(c.effectsEnableCommand(true))
	cmd.AddCommand(c.effectsEnableCommand(false))
	cmd.AddCommand(c.effectsSetCommand())
	cmd.AddCommand(c.effectsSaveCommand())
	cmd.AddCommand(c.effectsLoadCommand())
	cmd.AddCommand(c.effectsResetCommand())
	cmd.AddCommand(c.effectsPresetsCommand())

	return cmd
}

// effectsListCommand creates the "effects list" subcommand.
func (c *CLI) effectsListCommand() *cobra.Command {
	var categoryFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog effects and their tuning",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			filter := catalog.Category(categoryFilter)
			if categoryFilter != "" && !filter.Valid() {
				return fmt.Errorf("invalid category: %q", categoryFilter)
			}

			// Names/Get rather than ByCategory so disabled effects
			// still show up with their off marker.
			var descriptors []catalog.Descriptor
			for _, cc := range catalog.Categories {
				if categoryFilter != "" && cc != filter {
					continue
				}
				for _, name := range cat.Names() {
					if d, ok := cat.Get(name); ok && d.Category == cc {
						descriptors = append(descriptors, d)
					}
				}
			}

			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				enabled := StyleSuccess.Render(iconSuccess)
				if !d.Enabled {
					enabled = StyleDim.Render(iconError)
				}
				rows = append(rows, []string{
					d.Name,
					string(d.Category),
					fmt.Sprintf("%.2f", d.Probability),
					fmt.Sprintf("%.2f", cat.EffectiveProbability(d.Name)),
					fmt.Sprintf("%.2f-%.2f", d.IntensityRange.Lo, d.IntensityRange.Hi),
					conflictCell(d.Name),
					enabled,
				})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Effect", "Category", "Prob", "Effective", "Intensity", "Conflicts", "On").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					return lipgloss.NewStyle()
				})

			fmt.Println(t.Render())
			printDetail("Global probability: %.2f · Max per image: %d",
				cat.GlobalProbability(), cat.MaxConcurrent())
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryFilter, "category", "", "show one category: aging, perspective, lighting")
	return cmd
}

// effectsEnableCommand creates "effects enable" or "effects disable".
func (c *CLI) effectsEnableCommand(enable bool) *cobra.Command {
	use, short := "enable <effect>", "Enable an effect in the catalog"
	if !enable {
		use, short = "disable <effect>", "Disable an effect in the catalog"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			name := args[0]
			var ok bool
			if enable {
				ok = cat.Enable(name)
			} else {
				ok = cat.Disable(name)
			}
			if !ok {
				return fmt.Errorf("unknown effect: %q (see 'plateforge effects list')", name)
			}

			if err := c.saveCatalog(cat); err != nil {
				return err
			}
			if enable {
				printSuccess("Enabled %s", name)
			} else {
				printSuccess("Disabled %s", name)
			}
			return nil
		},
	}
}

// effectsSetCommand creates the "effects set" subcommand for tuning
// probabilities.
func (c *CLI) effectsSetCommand() *cobra.Command {
	var (
		probability float64
		global      float64
		maxCount    int
	)

	cmd := &cobra.Command{
		Use:   "set [effect]",
		Short: "Tune effect or catalog probabilities",
		Example: `  # Make wear much more common
  plateforge effects set wear_effect --probability 0.8

  # Tone everything down
  plateforge effects set --global 0.15 --max 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("probability") {
				if len(args) == 0 {
					return fmt.Errorf("--probability requires an effect name")
				}
				if err := cat.UpdateProbability(args[0], probability); err != nil {
					return err
				}
				changed = true
			}
			if cmd.Flags().Changed("global") {
				if err := cat.SetGlobalProbability(global); err != nil {
					return err
				}
				changed = true
			}
			if cmd.Flags().Changed("max") {
				if err := cat.SetMaxConcurrent(maxCount); err != nil {
					return err
				}
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to set (use --probability, --global, or --max)")
			}

			if err := c.saveCatalog(cat); err != nil {
				return err
			}
			printSuccess("Catalog updated")
			return nil
		},
	}

	cmd.Flags().Float64Var(&probability, "probability", 0, "base probability for the named effect (0-1)")
	cmd.Flags().Float64Var(&global, "global", 0, "global probability multiplier (0-1)")
	cmd.Flags().IntVar(&maxCount, "max", 0, "max concurrent effects per image")
	return cmd
}

// effectsSaveCommand creates the "effects save" subcommand.
func (c *CLI) effectsSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Export the catalog to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			if err := cat.Save(args[0]); err != nil {
				return err
			}
			printSuccess("Saved catalog")
			printFile(args[0])
			return nil
		},
	}
}

// effectsLoadCommand creates the "effects load" subcommand.
func (c *CLI) effectsLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Import a catalog from a JSON file",
		Long: `Import a catalog from a JSON file and make it the active catalog
for future runs. The file is validated before anything is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			if err := cat.Load(args[0]); err != nil {
				return err
			}
			if err := c.saveCatalog(cat); err != nil {
				return err
			}
			printSuccess("Loaded catalog with %d effects", cat.Len())
			return nil
		},
	}
}

// effectsResetCommand creates the "effects reset" subcommand.
func (c *CLI) effectsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := catalogPath()
			if err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			printSuccess("Catalog reset to defaults")
			return nil
		},
	}
}

// effectsPresetsCommand creates the "effects presets" subcommand.
func (c *CLI) effectsPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List effect presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range compose.Presets() {
				fmt.Println(StyleHighlight.Render(p.Name))
				printDetail("%s", p.Description)
				var notes []string
				if len(p.Options.Force) > 0 {
					notes = append(notes, "always: "+strings.Join(p.Options.Force, ", "))
				}
				if p.Options.MaxTransforms >= 0 {
					notes = append(notes, fmt.Sprintf("max %d", p.Options.MaxTransforms))
				}
				if p.Options.IntensityScale > 0 {
					notes = append(notes, fmt.Sprintf("intensity ×%.1f", p.Options.IntensityScale))
				}
				if len(notes) > 0 {
					printDetail("%s", strings.Join(notes, " · "))
				}
				printNewline()
			}
			return nil
		},
	}
}

// conflictCell renders an effect's conflict partners for the list
// table, with the registry suffixes trimmed to keep the column narrow.
func conflictCell(name string) string {
	conflicts := compose.Conflicts(name)
	if len(conflicts) == 0 {
		return "-"
	}
	short := make([]string, len(conflicts))
	for i, c := range conflicts {
		short[i] = shortEffectName(c)
	}
	return strings.Join(short, ", ")
}

// shortEffectName trims the _effect/_transform registry suffixes for
// display.
func shortEffectName(name string) string {
	name = strings.TrimSuffix(name, "_effect")
	name = strings.TrimSuffix(name, "_transform")
	return name
}

// saveCatalog persists the catalog to the config directory.
func (c *CLI) saveCatalog(cat *catalog.Catalog) error {
	path, err := catalogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return cat.Save(path)
}
