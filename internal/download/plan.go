package download

import (
	"github.com/ytget/ytgrab/internal/fetch"
	"github.com/ytget/ytgrab/internal/model"
)

// Format selectors passed to the fetch tool
const (
	FormatAudioAndVideo = "best[ext=mp4]/best"
	FormatVideoOnly     = "bestvideo[ext=mp4]"
	FormatAudioOnly     = "bestaudio"
)

// Audio conversion settings
const (
	AudioCodec   = "mp3"
	AudioQuality = "192"
)

// File extensions of produced files
const (
	ExtMP4 = "mp4"
	ExtMP3 = "mp3"
)

// Plan is the fetch configuration derived from a FormatIntent
type Plan struct {
	Intent             model.FormatIntent
	Format             string
	Postprocessor      *fetch.Postprocessor
	Ext                string
	MimeType           string
	RequiresTranscoder bool
}

// PlanFor maps intent onto a fetch plan. It has no side effects.
func PlanFor(intent model.FormatIntent) (Plan, error) {
	mime, err := intent.MimeType()
	if err != nil {
		return Plan{}, err
	}

	p := Plan{Intent: intent, MimeType: mime}
	switch intent {
	case model.AudioAndVideo:
		p.Format = FormatAudioAndVideo
		p.Ext = ExtMP4
	case model.VideoOnly:
		p.Format = FormatVideoOnly
		p.Ext = ExtMP4
	case model.AudioOnly:
		p.Format = FormatAudioOnly
		p.Ext = ExtMP3
		p.RequiresTranscoder = true
		p.Postprocessor = &fetch.Postprocessor{
			Key:     fetch.ExtractAudioKey,
			Codec:   AudioCodec,
			Quality: AudioQuality,
		}
	}
	return p, nil
}

// Query builds the fetch query writing to outputTemplate
func (p Plan) Query(outputTemplate string) fetch.Query {
	return fetch.Query{
		Format:         p.Format,
		OutputTemplate: outputTemplate,
		Download:       true,
		Postprocessor:  p.Postprocessor,
	}
}
