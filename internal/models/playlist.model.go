package models

import (
	"time"
)

// Playlist is a named, user-created collection of BGM records.
type Playlist struct {
	BaseModel
	Name        string  `gorm:"not null"  json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

// PlaylistItem is the ordered membership of a BGM in a Playlist. The
// composite unique index makes a BGM appear at most once per playlist;
// Position is assigned as the membership count at insertion and is not
// renumbered on removal, so positions may have gaps but ascending order
// always reproduces insertion order of the survivors.
type PlaylistItem struct {
	ID         int       `gorm:"type:int;primaryKey;autoIncrement"         json:"id"`
	PlaylistID int       `gorm:"not null;uniqueIndex:idx_playlist_bgm"     json:"playlistId"`
	Playlist   Playlist  `gorm:"foreignKey:PlaylistID"                     json:"-"`
	BGMID      int       `gorm:"not null;uniqueIndex:idx_playlist_bgm"     json:"bgmId"`
	BGM        BGM       `gorm:"foreignKey:BGMID"                          json:"-"`
	Position   int       `gorm:"not null"                                  json:"position"`
	AddedAt    time.Time `gorm:"autoCreateTime"                            json:"addedAt"`
}
