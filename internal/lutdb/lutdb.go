// Package lutdb holds the camera knowledge base: the ordered camera table with
// its color-transform recommendations and the folder keyword lookup.
//
// Iteration order of both tables is part of the contract. The classifier
// takes the first matching entry, so entries are kept as slices rather than
// maps.
package lutdb

import (
	"strings"

	"meldify/pkg/models"
)

// Generic bucket keys used by the extension tiers.
const (
	GenericR3D = "GENERIC_R3D"
	GenericMXF = "GENERIC_MXF"
	GenericMOV = "GENERIC_MOV"
	GenericMP4 = "GENERIC_MP4"
	GenericDNG = "GENERIC_DNG"

	RedDigitalCinema = "RED DIGITAL CINEMA"
	UnknownCamera    = "Unknown Camera"
)

const genericPrefix = "GENERIC_"

// Camera is one knowledge base entry.
type Camera struct {
	Key string
	LUT models.LutInfo
}

// FolderKeyword maps a lower-case folder substring to a camera key.
type FolderKeyword struct {
	Keyword    string
	CameraType string
}

// Base is an immutable, ordered lookup.
type Base struct {
	cameras  []Camera
	keywords []FolderKeyword
	index    map[string]int
}

// New builds a knowledge base from ordered tables.
func New(cameras []Camera, keywords []FolderKeyword) *Base {
	b := &Base{
		cameras:  append([]Camera(nil), cameras...),
		keywords: append([]FolderKeyword(nil), keywords...),
		index:    make(map[string]int, len(cameras)),
	}
	for i, c := range b.cameras {
		if _, dup := b.index[c.Key]; !dup {
			b.index[c.Key] = i
		}
	}
	return b
}

var defaultBase = New(defaultCameras, defaultFolderKeywords)

// Default returns the built-in knowledge base.
func Default() *Base { return defaultBase }

// Lookup returns a copy of the LUT info for key.
func (b *Base) Lookup(key string) (models.LutInfo, bool) {
	i, ok := b.index[key]
	if !ok {
		return models.LutInfo{}, false
	}
	return b.cameras[i].LUT.Clone(), true
}

// Cameras returns the entries in insertion order.
func (b *Base) Cameras() []Camera {
	return append([]Camera(nil), b.cameras...)
}

// FolderKeywords returns the keyword table in insertion order.
func (b *Base) FolderKeywords() []FolderKeyword {
	return append([]FolderKeyword(nil), b.keywords...)
}

// Unknown is the LUT info attached to unclassifiable files.
func Unknown() models.LutInfo {
	return models.LutInfo{
		DefaultLUTs:   []string{models.NeutralLUT},
		ColorSpaceMap: map[string]string{},
		Icon:          "❓",
		Color:         "#7f8c8d",
	}
}

// IsGeneric reports whether key is an extension bucket rather than a camera.
func IsGeneric(key string) bool {
	return strings.HasPrefix(key, genericPrefix)
}

// IsREDFamily reports whether key belongs to the RED camera line, including
// the generic R3D bucket. Only these types are split further by reel.
func IsREDFamily(key string) bool {
	return key == GenericR3D || strings.HasPrefix(key, "RED ")
}

// DisplayName turns a key into a label for humans.
func DisplayName(key string) string {
	if IsGeneric(key) {
		return "Generic " + strings.TrimPrefix(key, genericPrefix)
	}
	return key
}
