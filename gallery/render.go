package gallery

import (
	"fmt"

	"github.com/mfolden/portfolio-backend/models"
)

// Frame is the render contract for one viewer state. The current item is
// shown full-size; thumbnails mirror the sequence with the selection
// highlighted. Autoplaying audio is never permitted, so only the selected
// video autoplays and video thumbnails are always muted.
type Frame struct {
	Current      *models.MediaItem `json:"current,omitempty"`
	Index        int               `json:"index"`
	Length       int               `json:"length"`
	Indicator    string            `json:"indicator,omitempty"`
	ShowControls bool              `json:"show_controls"`
	Autoplay     bool              `json:"autoplay"`
	Thumbnails   []Thumbnail       `json:"thumbnails,omitempty"`
}

// Thumbnail is one entry of the synchronized thumbnail strip.
type Thumbnail struct {
	Item     models.MediaItem `json:"item"`
	Selected bool             `json:"selected"`
	Autoplay bool             `json:"autoplay"`
	Muted    bool             `json:"muted"`
}

// Render computes the frame for a view. An empty view renders no media
// element and no navigation controls; the position indicator only appears
// when there is something to navigate.
func Render(v View) Frame {
	length := v.Len()
	frame := Frame{
		Index:        v.Index(),
		Length:       length,
		ShowControls: length > 1,
	}

	current, ok := v.Current()
	if !ok {
		return frame
	}
	frame.Current = &current
	frame.Autoplay = current.Type == models.MediaTypeVideo

	if length > 1 {
		frame.Indicator = fmt.Sprintf("%d / %d", v.Index()+1, length)
	}

	items := v.Items()
	frame.Thumbnails = make([]Thumbnail, 0, len(items))
	for i, item := range items {
		frame.Thumbnails = append(frame.Thumbnails, Thumbnail{
			Item:     item,
			Selected: i == v.Index(),
			Autoplay: false,
			Muted:    item.Type == models.MediaTypeVideo,
		})
	}
	return frame
}
