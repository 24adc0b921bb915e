package fetch

import (
	"path/filepath"
	"strings"

	"yt-transcript-fetcher/internal/catalog"
	"yt-transcript-fetcher/internal/model"
	"yt-transcript-fetcher/internal/naming"
)

type StatusOptions struct {
	CataloguePath string
	OutputDir     string
	Creator       string // optional filter by creator name
}

type StatusRow struct {
	Creator           string `json:"creator"`
	Total             int    `json:"total"`
	DonePrimary       int    `json:"done_primary"`
	DoneSecondary     int    `json:"done_secondary"`
	CaptionsDisabled  int    `json:"captions_disabled"`
	Pending           int    `json:"pending"`
	MissingArtifacts  int    `json:"missing_artifacts"`
	InvalidDateVideos int    `json:"invalid_date_videos,omitempty"`
}

type StatusTotals struct {
	Creators int `json:"creators"`
	Videos   int `json:"videos"`
	Done     int `json:"done"`
	Pending  int `json:"pending"`
}

type StatusResult struct {
	CataloguePath string       `json:"catalogue_path"`
	OutputDir     string       `json:"output_dir"`
	Rows          []StatusRow  `json:"rows"`
	Totals        StatusTotals `json:"totals"`
}

// Status reconciles the ledger against the artifacts on disk and rolls the
// result up per creator. A video only counts as done when its flag is set
// AND its transcript file actually exists; a set flag without a file is
// reported under missing_artifacts and counted as pending.
func Status(opts StatusOptions) (StatusResult, error) {
	cat, err := catalog.Load(opts.CataloguePath)
	if err != nil {
		return StatusResult{}, err
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = "transcripts"
	}
	filter := strings.TrimSpace(opts.Creator)

	res := StatusResult{
		CataloguePath: opts.CataloguePath,
		OutputDir:     outputDir,
		Rows:          []StatusRow{},
	}

	for _, creator := range cat.ContentResources {
		if filter != "" && !strings.EqualFold(creator.ContentCreator, filter) {
			continue
		}
		row := StatusRow{Creator: creator.ContentCreator}
		for _, video := range creator.ContentCollection {
			row.Total++
			if video.CaptionsAvailable == model.CaptionsDisabled {
				row.CaptionsDisabled++
			}

			onDisk := false
			filename, err := naming.Filename(video.PublishedTime, creator.ContentCreator, video.VideoID)
			if err != nil {
				row.InvalidDateVideos++
			} else {
				onDisk = fileExists(filepath.Join(outputDir, filename))
			}

			flagged := video.Done()
			switch {
			case flagged && onDisk:
				if video.DonePrimary() {
					row.DonePrimary++
				} else {
					row.DoneSecondary++
				}
			case flagged && !onDisk:
				row.MissingArtifacts++
				row.Pending++
			default:
				row.Pending++
			}
		}
		res.Rows = append(res.Rows, row)
		res.Totals.Creators++
		res.Totals.Videos += row.Total
		res.Totals.Done += row.DonePrimary + row.DoneSecondary
		res.Totals.Pending += row.Pending
	}
	return res, nil
}
