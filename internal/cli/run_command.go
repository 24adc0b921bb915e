package cli

import (
	"flag"
	"fmt"
	"strings"

	"yt-transcript-fetcher/internal/config"
	"yt-transcript-fetcher/internal/fetch"
)

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	pass := fs.String("pass", string(fetch.PassPrimary), "source pass: primary|fallback")
	catalogue := fs.String("catalogue", "", "catalogue path (default from settings)")
	outputDir := fs.String("output-dir", "", "transcript output directory (default from settings)")
	lang := fs.String("lang", "", "language override for every creator")
	maxVideos := fs.Int("max-videos", 0, "cap on fetch attempts this run (0 = no limit)")
	quiet := fs.Bool("quiet", false, "suppress per-video progress output")
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

	res, err := fetch.Run(fetch.RunOptions{
		CataloguePath: pickPath(*catalogue, settings.CataloguePath),
		OutputDir:     pickPath(*outputDir, settings.OutputDir),
		Pass:          fetch.Pass(strings.TrimSpace(*pass)),
		Lang:          pickPath(*lang, settings.DefaultLang),
		MaxVideos:     *maxVideos,
		Quiet:         *quiet || *jsonOut,
		Primary:       buildPrimary(),
		Fallback:      buildFallback(settings),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
		return failedItemsErr(res.Failed)
	}

	fmt.Printf("pass: %s\n", res.Pass)
	fmt.Printf("catalogue: %s\n", res.CataloguePath)
	fmt.Printf("output_dir: %s\n", res.OutputDir)
	fmt.Printf("processed/done/failed: %d/%d/%d\n", res.Total, res.AlreadyDone+res.Succeeded, res.Failed)
	if res.SkippedCaptioned > 0 {
		fmt.Printf("skipped (captions not known disabled): %d\n", res.SkippedCaptioned)
	}
	if res.Failed > 0 {
		fmt.Println("next: re-run the same pass; completed videos are skipped")
	}
	return failedItemsErr(res.Failed)
}

func failedItemsErr(failed int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d video(s) failed", failed)
}

func runFetch(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	video := fs.String("video-id", "", "video id (required)")
	creator := fs.String("creator", "", "creator name override")
	date := fs.String("date", "", "published date override (MM-DD-YYYY)")
	title := fs.String("title", "", "title override for progress output")
	lang := fs.String("lang", "", "preferred transcript language")
	source := fs.String("source", string(fetch.PassPrimary), "source: primary|fallback")
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

	res, err := fetch.FetchOne(fetch.FetchOneOptions{
		CataloguePath: pickPath(*catalogue, settings.CataloguePath),
		OutputDir:     pickPath(*outputDir, settings.OutputDir),
		VideoID:       strings.TrimSpace(*video),
		Creator:       strings.TrimSpace(*creator),
		Date:          strings.TrimSpace(*date),
		Lang:          pickPath(*lang, settings.DefaultLang),
		Title:         strings.TrimSpace(*title),
		Source:        fetch.Pass(strings.TrimSpace(*source)),
		Quiet:         *jsonOut,
		Primary:       buildPrimary(),
		Fallback:      buildFallback(settings),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("fetched %s via %s source\n", res.VideoID, res.Source)
	fmt.Printf("output: %s\n", res.OutputPath)
	fmt.Printf("ledger_updated: %t\n", res.LedgerUpdated)
	return nil
}

func pickPath(flagValue, settingsValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(settingsValue)
}
