package metadata

import (
	"github.com/stretchr/testify/assert"
	"satchel/shared"
	"testing"
)

func TestInferMediaType(t *testing.T) {
	tests := []struct {
		uri         string
		contentType string
		expected    shared.MediaType
	}{
		{"https://example.com/a.PNG", "", shared.MediaImage},
		{"https://example.com/a.mp4?x=1", "", shared.MediaVideo},
		{"ipfs://" + testCIDv0 + "/song.flac", "", shared.MediaAudio},
		{"ar://abc/model.glb", "", shared.MediaModel},
		{"https://example.com/index.html", "", shared.MediaHTML},
		{"https://example.com/file", "video/webm; codecs=vp9", shared.MediaVideo},
		{"https://example.com/a.png", "text/html", shared.MediaHTML},
		{"https://example.com/a.png", "application/octet-stream", shared.MediaImage},
		{"data:image/svg+xml;base64,PHN2Zz4=", "", shared.MediaImage},
		{"data:text/html,<p>hi</p>", "", shared.MediaHTML},
		{"ipfs://" + testCIDv0, "", shared.MediaUnknown},
		{"", "", shared.MediaUnknown},
	}

	for _, test := range tests {
		assert.Equal(t,
			test.expected,
			InferMediaType(test.uri, test.contentType),
			test.uri)
	}
}

func TestMediaTypeForFields(t *testing.T) {
	image := "ipfs://" + testCIDv0 + "/a.png"

	// Animations win when they are richer than a still image
	assert.Equal(t, shared.MediaVideo,
		MediaTypeForFields(image, "", "https://example.com/a.mp4", ""))
	assert.Equal(t, shared.MediaHTML,
		MediaTypeForFields(image, "", "https://example.com/app", "text/html"))

	// Gif "animations" and unknown animations fall back to the image
	assert.Equal(t, shared.MediaImage,
		MediaTypeForFields(image, "", "https://example.com/a.gif", ""))
	assert.Equal(t, shared.MediaImage,
		MediaTypeForFields(image, "", "ipfs://"+testCIDv0, ""))

	// Anything in the image field is an image
	assert.Equal(t, shared.MediaImage,
		MediaTypeForFields("ipfs://"+testCIDv0, "", "", ""))

	assert.Equal(t, shared.MediaUnknown, MediaTypeForFields("", "", "", ""))
	assert.Equal(t, shared.MediaAudio,
		MediaTypeForFields("", "", "https://example.com/a.mp3", ""))
}
