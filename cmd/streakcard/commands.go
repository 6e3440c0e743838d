package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/internal/services"
	"github.com/alimgiray/streakcard/pkg/config"
	"github.com/alimgiray/streakcard/pkg/logger"
)

type renderOptions struct {
	user       string
	out        string
	preset     string
	theme      string
	noAvatar   bool
	statsURL   string
	presetFile string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "streakcard",
		Short:         "Render GitHub streak cards as SVG",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init("")
			logger.SetOutput(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(newRenderCmd(), newThemesCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	cfg := config.FromEnv()
	opts := renderOptions{
		statsURL:   cfg.Stats.APIURL,
		presetFile: cfg.Theme.PresetsFile,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a card for a user and write it to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.user, "user", "u", "", "GitHub username (required)")
	flags.StringVarP(&opts.out, "out", "o", "streak-card.svg", "output SVG file path, - for stdout")
	flags.StringVar(&opts.preset, "preset", models.DefaultPreset, "theme preset name")
	flags.StringVar(&opts.theme, "theme", "", "partial theme as a JSON object")
	flags.BoolVar(&opts.noAvatar, "no-avatar", false, "draw the username initial instead of the avatar")
	flags.StringVar(&opts.statsURL, "stats-url", opts.statsURL, "statistics endpoint (default: GitHub API)")
	flags.StringVar(&opts.presetFile, "presets-file", opts.presetFile, "YAML file with extra theme presets")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall time limit")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runRender(ctx context.Context, stdout io.Writer, cfg *config.Config, opts renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	themes, err := loadThemes(opts.presetFile)
	if err != nil {
		return err
	}

	httpTimeout := time.Duration(cfg.Stats.HTTPTimeout) * time.Second
	var stats services.StatsFetcher
	if opts.statsURL != "" {
		stats = services.NewStatsService(opts.statsURL, cfg.Stats.UserAgent, httpTimeout)
	} else {
		profiles, err := services.NewProfileService(cfg.GitHub.Token, cfg.GitHub.BaseURL, httpTimeout)
		if err != nil {
			return err
		}
		stats = profiles
	}
	avatars := services.NewAvatarService(cfg.Stats.UserAgent, httpTimeout, int64(cfg.Avatar.MaxBytes), cfg.Avatar.Size)

	result := services.NewCardService(stats, avatars, themes, nil).Generate(ctx, services.CardRequest{
		Username:    opts.user,
		Preset:      opts.preset,
		ThemeParam:  opts.theme,
		EmbedAvatar: !opts.noAvatar,
	})
	if errors.Is(result.Err, services.ErrUsernameRequired) {
		return result.Err
	}
	if !result.OK {
		logger.WithError(result.Err).Warn("Statistics unavailable, writing error card")
	}

	if opts.out == "-" {
		_, err := stdout.Write(result.SVG)
		return err
	}
	if err := os.WriteFile(opts.out, result.SVG, 0o644); err != nil {
		return fmt.Errorf("failed to write SVG to %s: %w", opts.out, err)
	}

	fmt.Fprintf(stdout, "streakcard: wrote %s for %q (avatar embedded: %t)\n", opts.out, opts.user, result.AvatarEmbedded)
	return nil
}

func newThemesCmd() *cobra.Command {
	var presetFile string

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List theme presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			themes, err := loadThemes(presetFile)
			if err != nil {
				return err
			}
			for _, name := range themes.PresetNames() {
				theme := themes.Preset(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s background=%s accent=%s streak=%s\n",
					name, theme.BackgroundColor, theme.AccentColor, theme.StreakColor)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&presetFile, "presets-file", os.Getenv("THEME_PRESETS_FILE"), "YAML file with extra theme presets")
	return cmd
}

func loadThemes(presetFile string) (*services.ThemeService, error) {
	if presetFile == "" {
		return services.NewThemeService(nil), nil
	}
	presets, err := services.LoadPresetsFile(presetFile)
	if err != nil {
		return nil, err
	}
	return services.NewThemeService(presets), nil
}
