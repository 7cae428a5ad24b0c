package handlers

import (
	"time"

	"image-renamer/internal/gallery"
	"image-renamer/internal/rename"
	"image-renamer/internal/startup"
	"image-renamer/internal/tags"
	"image-renamer/internal/thumbs"
)

type Handlers struct {
	scanner     *gallery.Scanner
	thumbs      *thumbs.Manager
	coordinator *rename.Coordinator
	tagStore    *tags.Store
	cache       *thumbs.Store

	mediaDir          string
	thumbnailsEnabled bool
	started           time.Time
}

func New(scanner *gallery.Scanner, manager *thumbs.Manager, coord *rename.Coordinator, tagStore *tags.Store, cache *thumbs.Store, config *startup.Config) *Handlers {
	return &Handlers{
		scanner:           scanner,
		thumbs:            manager,
		coordinator:       coord,
		tagStore:          tagStore,
		cache:             cache,
		mediaDir:          config.MediaDir,
		thumbnailsEnabled: config.ThumbnailsEnabled,
		started:           time.Now(),
	}
}
