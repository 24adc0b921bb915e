// Package fetch drives the per-video reconciliation workflow: it walks the
// catalogue, applies skip rules, invokes the right source adapter, and keeps
// the persisted ledger in step with the files on disk.
package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yt-transcript-fetcher/internal/captions"
	"yt-transcript-fetcher/internal/catalog"
	"yt-transcript-fetcher/internal/model"
	"yt-transcript-fetcher/internal/naming"
)

type Pass string

const (
	// PassPrimary tries the primary caption source for every video not
	// already fetched from it.
	PassPrimary Pass = "primary"
	// PassFallback tries the secondary source, but only for videos whose
	// captions are known to be disabled.
	PassFallback Pass = "fallback"
)

// Source downloads one video's transcript to outputPath. Both adapters
// satisfy it; tests substitute fakes.
type Source interface {
	Download(videoID, preferredLang, outputPath string) error
}

type RunOptions struct {
	CataloguePath string
	OutputDir     string
	Pass          Pass
	Lang          string // overrides every creator's native_lang
	MaxVideos     int    // cap on fetch attempts this invocation (0 = no limit)
	Quiet         bool
	Primary       Source
	Fallback      Source
}

type RunResult struct {
	Pass             Pass   `json:"pass"`
	CataloguePath    string `json:"catalogue_path"`
	OutputDir        string `json:"output_dir"`
	Total            int    `json:"total_count"`
	AlreadyDone      int    `json:"already_done_count"`
	Succeeded        int    `json:"succeeded_count"`
	Failed           int    `json:"failed_count"`
	SkippedCaptioned int    `json:"skipped_captioned_count,omitempty"`
}

// Run executes one full catalogue pass. Items are processed strictly one at
// a time; the ledger is persisted after every item's outcome so an
// interrupted run loses at most the in-flight video. Per-item errors never
// abort the pass — only a missing or unparseable catalogue is fatal.
func Run(opts RunOptions) (RunResult, error) {
	switch opts.Pass {
	case PassPrimary, PassFallback:
	default:
		return RunResult{}, fmt.Errorf("unknown pass %q (use %s or %s)", opts.Pass, PassPrimary, PassFallback)
	}
	if opts.Pass == PassPrimary && opts.Primary == nil {
		return RunResult{}, fmt.Errorf("primary source not configured")
	}
	if opts.Pass == PassFallback && opts.Fallback == nil {
		return RunResult{}, fmt.Errorf("fallback source not configured")
	}

	lock, err := catalog.AcquireLock(opts.CataloguePath)
	if err != nil {
		return RunResult{}, err
	}
	defer func() {
		_ = lock.Release()
	}()

	cat, err := catalog.Load(opts.CataloguePath)
	if err != nil {
		return RunResult{}, err
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = "transcripts"
	}
	if err := catalog.Mkdir(outputDir); err != nil {
		return RunResult{}, err
	}

	r := &runner{
		opts:      opts,
		cat:       &cat,
		outputDir: outputDir,
		grandN:    cat.VideoCount(),
		result: RunResult{
			Pass:          opts.Pass,
			CataloguePath: opts.CataloguePath,
			OutputDir:     outputDir,
		},
	}

	for ci := range cat.ContentResources {
		creator := &cat.ContentResources[ci]
		if len(creator.ContentCollection) == 0 {
			r.printf("skipping %q: no videos in collection\n", creator.ContentCreator)
			continue
		}
		r.printf("processing %s (%d videos)\n", creator.ContentCreator, len(creator.ContentCollection))
		for vi := range creator.ContentCollection {
			if r.capped() {
				return r.result, nil
			}
			r.index++
			video := &creator.ContentCollection[vi]
			switch opts.Pass {
			case PassPrimary:
				r.processPrimary(creator, video)
			case PassFallback:
				r.processFallback(creator, video)
			}
		}
	}
	return r.result, nil
}

type runner struct {
	opts      RunOptions
	cat       *model.Catalogue
	outputDir string
	grandN    int
	index     int
	attempts  int
	result    RunResult
}

func (r *runner) processPrimary(creator *model.Creator, video *model.Video) {
	r.result.Total++

	outPath, err := r.artifactPath(creator, video)
	if err != nil {
		// Bad published dates fail the item, not the run.
		r.printf("[%d/%d] fail  %s: %v\n", r.index, r.grandN, video.VideoID, err)
		video.FetchedPrimary = false
		r.persist()
		r.result.Failed++
		return
	}

	if video.FetchedPrimary && fileExists(outPath) {
		r.printf("[%d/%d] done  %s (already fetched)\n", r.index, r.grandN, video.VideoID)
		r.result.AlreadyDone++
		return
	}

	r.printf("[%d/%d] fetch %s (%s)\n", r.index, r.grandN, video.VideoID, video.VideoTitle)
	r.attempts++
	err = r.opts.Primary.Download(video.VideoID, r.langFor(creator), outPath)
	if err == nil {
		video.FetchedPrimary = true
		video.CaptionsAvailable = model.CaptionsEnabled
		r.persist()
		r.result.Succeeded++
		r.printf("[%d/%d] done  %s\n", r.index, r.grandN, video.VideoID)
		return
	}

	video.FetchedPrimary = false
	switch captions.KindOf(err) {
	case captions.KindDisabled:
		video.CaptionsAvailable = model.CaptionsDisabled
	case captions.KindWrite:
		// The fetch itself succeeded, so captions are known to exist even
		// though the item failed; a re-run retries the primary source.
		video.CaptionsAvailable = model.CaptionsEnabled
	}
	r.persist()
	r.result.Failed++
	r.printf("[%d/%d] fail  %s: %v\n", r.index, r.grandN, video.VideoID, err)
}

func (r *runner) processFallback(creator *model.Creator, video *model.Video) {
	// Only videos explicitly known to lack captions are eligible: true
	// means the primary source should be used, unknown means the need for
	// a fallback has not been established yet.
	if video.CaptionsAvailable != model.CaptionsDisabled {
		r.result.SkippedCaptioned++
		return
	}
	r.result.Total++

	outPath, err := r.artifactPath(creator, video)
	if err != nil {
		r.printf("[%d/%d] fail  %s: %v\n", r.index, r.grandN, video.VideoID, err)
		video.FetchedSecondary = false
		r.persist()
		r.result.Failed++
		return
	}

	if video.FetchedSecondary && fileExists(outPath) {
		r.printf("[%d/%d] done  %s (already fetched)\n", r.index, r.grandN, video.VideoID)
		r.result.AlreadyDone++
		return
	}

	r.printf("[%d/%d] fetch %s (%s)\n", r.index, r.grandN, video.VideoID, video.VideoTitle)
	r.attempts++
	err = r.opts.Fallback.Download(video.VideoID, r.langFor(creator), outPath)
	if err == nil {
		video.FetchedSecondary = true
		r.persist()
		r.result.Succeeded++
		r.printf("[%d/%d] done  %s\n", r.index, r.grandN, video.VideoID)
		return
	}

	// Secondary failures carry no fresh caption-availability evidence, so
	// the tri-state flag is left untouched.
	video.FetchedSecondary = false
	r.persist()
	r.result.Failed++
	r.printf("[%d/%d] fail  %s: %v\n", r.index, r.grandN, video.VideoID, err)
}

func (r *runner) artifactPath(creator *model.Creator, video *model.Video) (string, error) {
	filename, err := naming.Filename(video.PublishedTime, creator.ContentCreator, video.VideoID)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.outputDir, filename), nil
}

func (r *runner) langFor(creator *model.Creator) string {
	if lang := strings.TrimSpace(r.opts.Lang); lang != "" {
		return lang
	}
	return strings.TrimSpace(creator.NativeLang)
}

// persist checkpoints the ledger after an item's outcome. Save failures are
// logged and swallowed: losing one checkpoint is preferable to aborting the
// whole batch.
func (r *runner) persist() {
	if err := catalog.Save(*r.cat, r.opts.CataloguePath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: persist catalogue %s: %v\n", r.opts.CataloguePath, err)
	}
}

func (r *runner) capped() bool {
	return r.opts.MaxVideos > 0 && r.attempts >= r.opts.MaxVideos
}

func (r *runner) printf(format string, args ...any) {
	if r.opts.Quiet {
		return
	}
	fmt.Printf(format, args...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
