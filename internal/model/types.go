package model

// Catalogue is the persisted ledger of creators and their videos. It is
// read once per run and saved after every per-video outcome; only the
// status flags on Video entries are ever mutated.
type Catalogue struct {
	ContentResources []Creator `json:"content_resources"`
}

type Creator struct {
	ContentCreator    string  `json:"content_creator"`
	NativeLang        string  `json:"native_lang,omitempty"`
	ContentCollection []Video `json:"content_collection"`
}

type Video struct {
	VideoID           string       `json:"video_id"`
	VideoTitle        string       `json:"video_title"`
	PublishedTime     string       `json:"published_time"`
	CaptionsAvailable CaptionState `json:"captions_available,omitempty"`
	FetchedPrimary    bool         `json:"fetched_primary,omitempty"`
	FetchedSecondary  bool         `json:"fetched_secondary,omitempty"`
}

// DonePrimary reports whether the video's transcript was fetched from the
// primary source. The flag is advisory; callers that need real completion
// must also check that the output artifact exists on disk.
func (v Video) DonePrimary() bool {
	return v.FetchedPrimary
}

// DoneFallback reports whether the video was fetched from the secondary
// source. Only meaningful for videos known to have captions disabled.
func (v Video) DoneFallback() bool {
	return v.CaptionsAvailable == CaptionsDisabled && v.FetchedSecondary
}

func (v Video) Done() bool {
	return v.DonePrimary() || v.DoneFallback()
}

func (c Catalogue) VideoCount() int {
	n := 0
	for _, creator := range c.ContentResources {
		n += len(creator.ContentCollection)
	}
	return n
}
