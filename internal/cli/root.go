/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/matjam/driftpaper"
	"github.com/matjam/driftpaper/internal/cli/cmd"
	"github.com/matjam/driftpaper/internal/cli/cmd/utils"
	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "driftpaper",
	Short: "A hardware accelerated wallpaper changer for Wayland",
	Long: `Driftpaper is a wallpaper changer with smooth crossfade transitions
for wlroots-based Wayland compositors, using OpenGL for hardware
acceleration.`,
	Run: func(c *cobra.Command, args []string) {
		if v, err := c.Flags().GetBool("show-config"); err == nil && v {
			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(viper.AllSettings())
			return
		}

		babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
		if v, err := c.Flags().GetBool("version"); err == nil && v {
			log.Infof("%v version %v © 2025 %v",
				babyBlue.Render("driftpaper "),
				green.Render(strings.Trim(driftpaper.Version, "\n\r ")),
				yellow.Render("Nathan Ollerenshaw"))
			return
		}

		if v, err := c.Flags().GetBool("installconfig"); err == nil && v {
			utils.InstallDefaultConfig()
			return
		}

		if v, err := c.Flags().GetBool("debug"); err == nil && v {
			log.SetLevel(log.DebugLevel)
		}

		if v, err := c.Flags().GetBool("background"); err == nil && v {
			daemonize()
			return
		}

		cmd.StartManager()
	},
}

// daemonize forks into the background and runs the manager in the child.
// The child finds BACKGROUND_PROCESS set and switches to the rotating log.
func daemonize() {
	home := os.Getenv("HOME")
	workDir := filepath.Join(home, ".local", "share", "driftpaper")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		log.Fatalf("Error creating state directory: %v", err)
	}

	ctx := &daemon.Context{
		PidFileName: filepath.Join(workDir, "driftpaper.pid"),
		PidFilePerm: 0644,
		WorkDir:     workDir,
		Env:         append(os.Environ(), "BACKGROUND_PROCESS=1"),
	}

	child, err := ctx.Reborn()
	if err != nil {
		log.Fatalf("Unable to run in the background: %v", err)
	}
	if child != nil {
		log.Infof("driftpaper running in the background with PID %d", child.Pid)
		return
	}
	defer func() {
		if err := ctx.Release(); err != nil {
			log.Errorf("Error releasing daemon context: %v", err)
		}
	}()

	cmd.StartManager()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)
	RegisterFlags(rootCmd)

	rootCmd.AddCommand(
		cmd.NewStartCmd(),
		cmd.NewStopCmd(),
		cmd.NewNextCmd(),
		cmd.NewStatusCmd(),
		cmd.NewLoadCmd(),
		cmd.NewGenManCmd(rootCmd),
	)
}
