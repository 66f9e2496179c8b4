package metadata

import (
	"mime"
	"net/url"
	"path"
	"satchel/shared"
	"strings"
)

var extensionTypes = map[string]shared.MediaType{
	"png":  shared.MediaImage,
	"jpg":  shared.MediaImage,
	"jpeg": shared.MediaImage,
	"gif":  shared.MediaImage,
	"svg":  shared.MediaImage,
	"webp": shared.MediaImage,
	"avif": shared.MediaImage,
	"bmp":  shared.MediaImage,
	"mp4":  shared.MediaVideo,
	"webm": shared.MediaVideo,
	"mov":  shared.MediaVideo,
	"m4v":  shared.MediaVideo,
	"mp3":  shared.MediaAudio,
	"wav":  shared.MediaAudio,
	"ogg":  shared.MediaAudio,
	"flac": shared.MediaAudio,
	"m4a":  shared.MediaAudio,
	"glb":  shared.MediaModel,
	"gltf": shared.MediaModel,
	"usdz": shared.MediaModel,
	"html": shared.MediaHTML,
	"htm":  shared.MediaHTML,
}

// InferMediaType determines the kind of media behind a URI. A known content
// type wins over the URI itself, then the media type of a data URI, then the
// file extension.
func InferMediaType(uri, contentType string) shared.MediaType {
	if mediaType := fromContentType(contentType); mediaType != shared.MediaUnknown {
		return mediaType
	}

	ref := ParseURI(uri)
	if ref.Scheme == SchemeData {
		comma := strings.Index(ref.Path, ",")
		if comma < 0 {
			return shared.MediaUnknown
		}

		header := ref.Path[len("data:"):comma]
		return fromContentType(strings.Split(header, ";")[0])
	} else if ref.Scheme == SchemeUnknown {
		return shared.MediaUnknown
	}

	p := ref.Path
	if u, err := url.Parse(ref.Path); err == nil && len(u.Path) > 0 {
		p = u.Path
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if mediaType, ok := extensionTypes[ext]; ok {
		return mediaType
	}

	return shared.MediaUnknown
}

func fromContentType(contentType string) shared.MediaType {
	if len(strings.TrimSpace(contentType)) == 0 {
		return shared.MediaUnknown
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}

	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return shared.MediaImage
	case strings.HasPrefix(mediaType, "video/"):
		return shared.MediaVideo
	case strings.HasPrefix(mediaType, "audio/"):
		return shared.MediaAudio
	case strings.HasPrefix(mediaType, "model/"):
		return shared.MediaModel
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return shared.MediaHTML
	}

	return shared.MediaUnknown
}

// MediaTypeForFields picks the display media type of an artifact. An animation that
// resolves to something richer than a still image takes priority; otherwise
// anything in the image field is treated as an image.
func MediaTypeForFields(imageURI, imageType, animationURI, animationType string) shared.MediaType {
	animationMedia := shared.MediaUnknown
	if len(animationURI) > 0 {
		animationMedia = InferMediaType(animationURI, animationType)
		if animationMedia != shared.MediaUnknown && animationMedia != shared.MediaImage {
			return animationMedia
		}
	}

	if len(imageURI) > 0 {
		if mediaType := InferMediaType(imageURI, imageType); mediaType != shared.MediaUnknown {
			return mediaType
		}

		return shared.MediaImage
	}

	return animationMedia
}
