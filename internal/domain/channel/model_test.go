package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10", "Music"},
		{"28", "Science & Technology"},
		{"99", "Unknown"},
		{"", "Unknown"},
		{"  ", "Unknown"},
		{"Gaming", "Gaming"},
		{" Cooking ", "Cooking"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryName(tt.in))
		})
	}
}

func TestVideoHasActivity(t *testing.T) {
	assert.False(t, Video{ID: "a"}.HasActivity())
	assert.True(t, Video{ID: "a", Stats: Stats{Views: 1}}.HasActivity())
	assert.True(t, Video{ID: "a", TopComments: []Comment{{Text: "hi"}}}.HasActivity())
}

func TestVideoNodeID(t *testing.T) {
	assert.Equal(t, "video_abc", Video{ID: "abc"}.NodeID())
}
