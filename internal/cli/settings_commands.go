package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-transcript-fetcher/internal/config"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	settingsPath := fs.String("settings", config.DefaultPath, "settings file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.Read(*settingsPath)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"settings_path": strings.TrimSpace(*settingsPath),
			"settings":      settings,
		})
	}

	fmt.Printf("settings: %s\n", strings.TrimSpace(*settingsPath))
	fmt.Printf("catalogue_path: %s\n", settings.CataloguePath)
	fmt.Printf("output_dir: %s\n", settings.OutputDir)
	if settings.DefaultLang != "" {
		fmt.Printf("default_lang: %s\n", settings.DefaultLang)
	} else {
		fmt.Println("default_lang: (per-creator native_lang)")
	}
	fmt.Printf("poll_interval_seconds: %d\n", settings.PollIntervalSeconds)
	fmt.Printf("max_poll_attempts: %d\n", settings.MaxPollAttempts)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	settingsPath := fs.String("settings", config.DefaultPath, "settings file path")
	catalogue := fs.String("catalogue", "", "default catalogue path (empty keeps current)")
	outputDir := fs.String("output-dir", "", "default output directory (empty keeps current)")
	lang := fs.String("lang", "", "default transcript language (empty keeps current)")
	pollInterval := fs.Int("poll-interval", -1, "fallback job poll interval in seconds (>=1, -1 keeps current)")
	pollAttempts := fs.Int("poll-attempts", -1, "fallback job poll attempt cap (>=1, -1 keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.Read(*settingsPath)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(*catalogue); v != "" {
		settings.CataloguePath = v
	}
	if v := strings.TrimSpace(*outputDir); v != "" {
		settings.OutputDir = v
	}
	if v := strings.TrimSpace(*lang); v != "" {
		settings.DefaultLang = v
	}
	if *pollInterval != -1 {
		if *pollInterval <= 0 {
			return errors.New("--poll-interval must be >= 1")
		}
		settings.PollIntervalSeconds = *pollInterval
	}
	if *pollAttempts != -1 {
		if *pollAttempts <= 0 {
			return errors.New("--poll-attempts must be >= 1")
		}
		settings.MaxPollAttempts = *pollAttempts
	}

	updated, err := config.Update(*settingsPath, settings)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(updated)
	}

	fmt.Printf("updated settings in %s\n", strings.TrimSpace(*settingsPath))
	fmt.Printf("catalogue_path: %s\n", updated.CataloguePath)
	fmt.Printf("output_dir: %s\n", updated.OutputDir)
	fmt.Printf("poll_interval_seconds: %d\n", updated.PollIntervalSeconds)
	fmt.Printf("max_poll_attempts: %d\n", updated.MaxPollAttempts)
	return nil
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show")
	fmt.Println("  settings set [--catalogue <path>] [--output-dir <dir>] [--lang <code>]")
	fmt.Println("               [--poll-interval N] [--poll-attempts N]")
}
