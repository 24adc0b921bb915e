package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"yt-transcript-fetcher/internal/config"
	"yt-transcript-fetcher/internal/fetch"
)

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	catalogue := fs.String("catalogue", "", "catalogue path (default from settings)")
	outputDir := fs.String("output-dir", "", "transcript output directory (default from settings)")
	creator := fs.String("creator", "", "limit rollup to one creator")
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

	res, err := fetch.Status(fetch.StatusOptions{
		CataloguePath: pickPath(*catalogue, settings.CataloguePath),
		OutputDir:     pickPath(*outputDir, settings.OutputDir),
		Creator:       strings.TrimSpace(*creator),
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("no catalogue found")
			fmt.Println("start here:")
			fmt.Println("  yt-transcript-fetcher init")
			fmt.Println("then fetch:")
			fmt.Println("  yt-transcript-fetcher run --pass primary")
			return nil
		}
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("catalogue: %s\n", res.CataloguePath)
	fmt.Printf("output_dir: %s\n", res.OutputDir)
	for _, row := range res.Rows {
		fmt.Printf("%s\n", row.Creator)
		fmt.Printf("  primary/fallback/pending: %d/%d/%d (of %d)\n", row.DonePrimary, row.DoneSecondary, row.Pending, row.Total)
		if row.CaptionsDisabled > 0 {
			fmt.Printf("  captions disabled: %d\n", row.CaptionsDisabled)
		}
		if row.MissingArtifacts > 0 {
			fmt.Printf("  flagged done but missing on disk: %d\n", row.MissingArtifacts)
		}
		if row.InvalidDateVideos > 0 {
			fmt.Printf("  unparseable published dates: %d\n", row.InvalidDateVideos)
		}
	}
	fmt.Println("totals")
	fmt.Printf("  creators: %d\n", res.Totals.Creators)
	fmt.Printf("  videos: %d\n", res.Totals.Videos)
	fmt.Printf("  done: %d\n", res.Totals.Done)
	fmt.Printf("  pending: %d\n", res.Totals.Pending)
	return nil
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	catalogue := fs.String("catalogue", "", "catalogue path (default from settings)")
	outputDir := fs.String("output-dir", "", "transcript output directory (default from settings)")
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

	res, err := config.Doctor(config.DoctorOptions{
		CataloguePath: pickPath(*catalogue, settings.CataloguePath),
		OutputDir:     pickPath(*outputDir, settings.OutputDir),
		SettingsPath:  *settingsPath,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	for _, c := range res.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("doctor: all checks passed")
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	catalogue := fs.String("catalogue", "", "catalogue path (default from settings)")
	outputDir := fs.String("output-dir", "", "transcript output directory (default from settings)")
	settingsPath := fs.String("settings", config.DefaultPath, "settings file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := config.InitWorkspace(config.InitWorkspaceOptions{
		CataloguePath: strings.TrimSpace(*catalogue),
		OutputDir:     strings.TrimSpace(*outputDir),
		SettingsPath:  *settingsPath,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Println("workspace initialized")
	fmt.Printf("catalogue: %s\n", res.CataloguePath)
	fmt.Printf("output_dir: %s\n", res.OutputDir)
	fmt.Printf("settings: %s\n", res.SettingsPath)
	fmt.Printf("created_catalogue: %t\n", res.CreatedCatalogue)
	fmt.Printf("created_settings: %t\n", res.CreatedSettings)
	fmt.Println("checks:")
	for _, c := range res.DoctorResult.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("  %s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.DoctorResult.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("next: add creators to the catalogue, then yt-transcript-fetcher run --pass primary")
	return nil
}
