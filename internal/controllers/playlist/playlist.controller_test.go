package playlistController

import (
	"context"
	"strings"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestCreate_NameValidation(t *testing.T) {
	c := &PlaylistController{log: logger.New("playlistController")}

	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"empty name", "", ErrValidation},
		{"whitespace only", "   ", ErrValidation},
		{"too long", strings.Repeat("a", MaxNameLength+1), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Create(context.Background(), &CreatePlaylistRequest{Name: tt.input})
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestMaxNameLength(t *testing.T) {
	assert.Equal(t, 120, MaxNameLength, "playlist name limit should match the client form")
}
