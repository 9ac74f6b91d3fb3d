package domain

import "time"

// AudioSource is the tagged origin of a track's audio: inline bytes or an
// external URL. A valid source has exactly one alternative set; when both
// are supplied the inline bytes win.
type AudioSource struct {
	Inline []byte
	URL    string
}

func InlineAudio(data []byte) AudioSource { return AudioSource{Inline: data} }

func ExternalAudio(url string) AudioSource { return AudioSource{URL: url} }

func (a AudioSource) IsZero() bool { return len(a.Inline) == 0 && a.URL == "" }

// Music is a catalog track. AudioData and AudioURL are mutually exclusive.
// OwnerID is nil for shared catalog entries; deleting the owner orphans the
// row rather than cascading.
type Music struct {
	ID              int64
	Title           string
	Artist          string
	Genre           string
	DurationSeconds *int
	AudioData       []byte
	AudioURL        string
	ImageRef        string
	OwnerID         *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
