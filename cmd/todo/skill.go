// ABOUTME: Install the todo agent skill
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install the todo skill for coding agents",
	Long: `Install the todo skill for coding agents.

This copies the skill definition to ~/.claude/skills/todo/
so agents can use todo commands contextually.`,
	Args: cobra.NoArgs,
	// No storage needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		skillPath := skillDestination(home)

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "This will install the todo skill, letting agents:")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, "  • Add, move and complete tasks")
		_, _ = fmt.Fprintln(out, "  • Review boards in display order")
		_, _ = fmt.Fprintln(out, "  • Seed projects from plans")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintf(out, "Destination:\n  %s\n\n", skillPath)

		if _, err := os.Stat(skillPath); err == nil {
			_, _ = fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
			_, _ = fmt.Fprintln(out)
		}

		if !confirm(cmd, "Install the todo skill?") {
			_, _ = fmt.Fprintln(out, "Installation canceled.")
			return nil
		}

		if err := installSkill(skillPath); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, color.GreenString("✓ Installed todo skill"))
		return nil
	},
}

func skillDestination(home string) string {
	return filepath.Join(home, ".claude", "skills", "todo", "SKILL.md")
}

// installSkill writes the embedded skill file to path.
func installSkill(path string) error {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := renameio.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}
	return nil
}

func init() {
	installSkillCmd.Flags().BoolP("confirm", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}
