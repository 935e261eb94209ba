// internal/domain/channel/model.go

package channel

import (
	"strings"
)

// Comment is a single viewer comment attached to a video
type Comment struct {
	Text        string `json:"comment"`
	PublishedAt string `json:"published_at"`
	Likes       int64  `json:"likes,omitempty"`
}

// Stats holds the public counters of a video
type Stats struct {
	Views        int64 `json:"views" validate:"gte=0"`
	Likes        int64 `json:"likes" validate:"gte=0"`
	CommentCount int64 `json:"comments" validate:"gte=0"`
}

// Video is one piece of channel content together with its statistics
type Video struct {
	ID          string `json:"video_id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`

	Stats

	Duration    float64   `json:"duration" validate:"gte=0"`
	Tags        []string  `json:"tags"`
	TopComments []Comment `json:"top_comments" validate:"dive"`
}

// Channel is a snapshot of a channel and its videos
type Channel struct {
	Title  string  `json:"title" validate:"required"`
	Videos []Video `json:"videos" validate:"dive"`
}

// NodeID returns the similarity graph node name of the video
func (v Video) NodeID() string {
	return "video_" + v.ID
}

// CategoryLabel returns the display name of the video category.
// Numeric category ids are resolved through the platform category table.
func (v Video) CategoryLabel() string {
	return CategoryName(v.Category)
}

// HasActivity reports whether the video carries anything worth scoring
func (v Video) HasActivity() bool {
	return v.Views > 0 || v.Likes > 0 || v.CommentCount > 0 || len(v.TopComments) > 0
}

// categories maps platform category ids to display names
var categories = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"18": "Short Movies",
	"19": "Travel & Events",
	"20": "Gaming",
	"21": "Videoblogging",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
}

// CategoryName resolves a category id or name to a display name
func CategoryName(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "Unknown"
	}

	if isNumeric(category) {
		if name, ok := categories[category]; ok {
			return name
		}
		return "Unknown"
	}

	return category
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
