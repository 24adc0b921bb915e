package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yt-transcript-fetcher/internal/captions"
	"yt-transcript-fetcher/internal/catalog"
	"yt-transcript-fetcher/internal/model"
	"yt-transcript-fetcher/internal/naming"
)

type FetchOneOptions struct {
	CataloguePath string // optional: when set and the video is catalogued, its flags are updated
	OutputDir     string
	VideoID       string
	Creator       string // override; defaults to the catalogue entry, else "Unknown"
	Date          string // override, MM-DD-YYYY; defaults to the catalogue entry
	Lang          string
	Title         string
	Source        Pass // PassPrimary or PassFallback
	Quiet         bool
	Primary       Source
	Fallback      Source
}

type FetchOneResult struct {
	VideoID       string `json:"video_id"`
	Source        Pass   `json:"source"`
	OutputPath    string `json:"output_path"`
	LedgerUpdated bool   `json:"ledger_updated"`
}

// FetchOne downloads a single identified video on demand, merging CLI
// overrides with whatever the catalogue knows about it, and mirrors the
// outcome into the ledger when the video is catalogued.
func FetchOne(opts FetchOneOptions) (FetchOneResult, error) {
	videoID := strings.TrimSpace(opts.VideoID)
	if videoID == "" {
		return FetchOneResult{}, errors.New("video id is required")
	}

	var src Source
	switch opts.Source {
	case PassPrimary:
		src = opts.Primary
	case PassFallback:
		src = opts.Fallback
	default:
		return FetchOneResult{}, fmt.Errorf("unknown source %q (use %s or %s)", opts.Source, PassPrimary, PassFallback)
	}
	if src == nil {
		return FetchOneResult{}, fmt.Errorf("%s source not configured", opts.Source)
	}

	var (
		cat        model.Catalogue
		catLoaded  bool
		catCreator *model.Creator
		catVideo   *model.Video
	)
	if path := strings.TrimSpace(opts.CataloguePath); path != "" {
		loaded, err := catalog.Load(path)
		if err == nil {
			cat = loaded
			catLoaded = true
			catCreator, catVideo = findVideo(&cat, videoID)
		} else if !errors.Is(err, os.ErrNotExist) {
			return FetchOneResult{}, err
		}
	}

	creator := strings.TrimSpace(opts.Creator)
	date := strings.TrimSpace(opts.Date)
	lang := strings.TrimSpace(opts.Lang)
	title := strings.TrimSpace(opts.Title)
	if catVideo != nil {
		if creator == "" {
			creator = catCreator.ContentCreator
		}
		if date == "" {
			date = catVideo.PublishedTime
		}
		if lang == "" {
			lang = catCreator.NativeLang
		}
		if title == "" {
			title = catVideo.VideoTitle
		}
	}
	if creator == "" {
		creator = "Unknown"
	}

	filename, err := naming.Filename(date, creator, videoID)
	if err != nil {
		return FetchOneResult{}, err
	}
	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = "transcripts"
	}
	if err := catalog.Mkdir(outputDir); err != nil {
		return FetchOneResult{}, err
	}
	outPath := filepath.Join(outputDir, filename)

	if !opts.Quiet {
		label := title
		if label == "" {
			label = videoID
		}
		fmt.Printf("fetching %s via %s source\n", label, opts.Source)
	}

	result := FetchOneResult{VideoID: videoID, Source: opts.Source, OutputPath: outPath}
	dlErr := src.Download(videoID, lang, outPath)

	if catLoaded && catVideo != nil {
		applyOutcome(catVideo, opts.Source, dlErr)
		if saveErr := catalog.Save(cat, strings.TrimSpace(opts.CataloguePath)); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: persist catalogue: %v\n", saveErr)
		} else {
			result.LedgerUpdated = true
		}
	}

	if dlErr != nil {
		return result, dlErr
	}
	return result, nil
}

func findVideo(cat *model.Catalogue, videoID string) (*model.Creator, *model.Video) {
	for ci := range cat.ContentResources {
		creator := &cat.ContentResources[ci]
		for vi := range creator.ContentCollection {
			if creator.ContentCollection[vi].VideoID == videoID {
				return creator, &creator.ContentCollection[vi]
			}
		}
	}
	return nil, nil
}

func applyOutcome(video *model.Video, source Pass, dlErr error) {
	switch source {
	case PassPrimary:
		if dlErr == nil {
			video.FetchedPrimary = true
			video.CaptionsAvailable = model.CaptionsEnabled
			return
		}
		video.FetchedPrimary = false
		switch captions.KindOf(dlErr) {
		case captions.KindDisabled:
			video.CaptionsAvailable = model.CaptionsDisabled
		case captions.KindWrite:
			video.CaptionsAvailable = model.CaptionsEnabled
		}
	case PassFallback:
		video.FetchedSecondary = dlErr == nil
	}
}
