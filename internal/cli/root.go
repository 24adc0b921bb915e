package cli

import (
	"fmt"

	"github.com/joho/godotenv"
)

func Run(args []string) error {
	// Credentials may live in a .env file next to the catalogue; a missing
	// file is fine, the environment still wins.
	_ = godotenv.Load()

	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "run":
		return runRun(args[1:])
	case "fetch":
		return runFetch(args[1:])
	case "status":
		return runStatus(args[1:])
	case "browse":
		return runBrowse(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "init":
		return runInit(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("yt-transcript-fetcher: batch YouTube transcript downloader with ledger-tracked progress")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  yt-transcript-fetcher init")
	fmt.Println("  yt-transcript-fetcher run --pass primary")
	fmt.Println("  yt-transcript-fetcher run --pass fallback")
	fmt.Println("  yt-transcript-fetcher status")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init      scaffold catalogue, output dir, settings + run preflight checks")
	fmt.Println("  doctor    run catalogue, filesystem, and credential preflight checks")
	fmt.Println("  run       fetch every eligible catalogue video via one source pass")
	fmt.Println("  fetch     fetch a single video by id, catalogued or not")
	fmt.Println("  status    per-creator rollup of ledger flags reconciled with disk")
	fmt.Println("  browse    interactive catalogue browser (filter, inspect, edit flags)")
	fmt.Println("  settings  show/update workspace defaults")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - The fallback pass needs SUPADATA_API_KEY (environment or .env)")
	fmt.Println("  - The ledger is checkpointed after every video; re-runs resume safely")
}
