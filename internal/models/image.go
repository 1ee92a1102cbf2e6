package models

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"

	"github.com/dpshade/pocket-kdp/internal/errors"
)

// NewReferenceImage builds an image entry from raw file bytes. The content type
// is sniffed rather than trusted from the file name, and anything that is not
// an image is rejected. The result embeds the bytes as a base64 data URL.
func NewReferenceImage(name string, data []byte) (ReferenceImage, error) {
	if len(data) == 0 {
		return ReferenceImage{}, errors.ValidationError(fmt.Sprintf("image %q is empty", name))
	}

	mtype := mimetype.Detect(data)
	mediaType := strings.TrimSpace(strings.SplitN(mtype.String(), ";", 2)[0])
	if !strings.HasPrefix(mediaType, "image/") {
		return ReferenceImage{}, errors.ValidationError(fmt.Sprintf("%q is not an image", name)).
			WithDetails("detected " + mediaType)
	}

	return ReferenceImage{
		ID:      NewID(),
		Name:    name,
		DataURL: dataurl.New(data, mediaType).String(),
		Tags:    []string{},
	}, nil
}

// ImageMediaType reads the media type from a data URL header without decoding
// the payload. It returns "" when the value is not a data URL.
func ImageMediaType(dataURL string) string {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return ""
	}
	header, _, ok := strings.Cut(rest, ",")
	if !ok {
		return ""
	}
	mediaType, _, _ := strings.Cut(header, ";")
	return mediaType
}
