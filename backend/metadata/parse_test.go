package metadata

import (
	"encoding/base64"
	"errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"satchel/shared"
	"strings"
	"testing"
)

func TestParseOpenSeaStyle(t *testing.T) {
	doc := `{
		"name": " Punk #1 ",
		"description": "A punk",
		"image": "ipfs://` + testCIDv0 + `/1.png",
		"animation_url": "ipfs://` + testCIDv0 + `/1.mp4",
		"external_url": "https://example.com/1",
		"collection": {"name": "Punks"},
		"attributes": [
			{"trait_type": "Background", "value": "Blue"},
			{"trait_type": "Level", "value": 5, "display_type": "number"},
			{"trait_type": "Rare", "value": true},
			{"trait_type": "Empty", "value": null},
			"garbage"
		]
	}`

	fields, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Error parsing metadata: %v", err)
	}

	expected := Fields{
		Name:         "Punk #1",
		Description:  "A punk",
		Image:        "ipfs://" + testCIDv0 + "/1.png",
		AnimationURL: "ipfs://" + testCIDv0 + "/1.mp4",
		ExternalURL:  "https://example.com/1",
		Collection:   "Punks",
		Attributes: []shared.Attribute{
			{TraitType: "Background", Value: "Blue"},
			{TraitType: "Level", Value: "5", DisplayType: "number"},
			{TraitType: "Rare", Value: "true"},
		},
	}

	if diff := cmp.Diff(expected, fields); diff != "" {
		t.Fatalf("Unexpected fields (-want +got):\n%s", diff)
	}
}

func TestParseAlternateKeys(t *testing.T) {
	doc := `{
		"title": "Alt",
		"imageUrl": "https://example.com/a.png",
		"animationUrl": "https://example.com/a.glb",
		"external_link": "https://example.com",
		"collection": "Alts",
		"traits": {"b": "2", "a": 1}
	}`

	fields, err := Parse([]byte(doc))
	assert.Nil(t, err)
	assert.Equal(t, "Alt", fields.Name)
	assert.Equal(t, "https://example.com/a.png", fields.Image)
	assert.Equal(t, "https://example.com/a.glb", fields.AnimationURL)
	assert.Equal(t, "https://example.com", fields.ExternalURL)
	assert.Equal(t, "Alts", fields.Collection)
	assert.Equal(t, []shared.Attribute{
		{TraitType: "a", Value: "1"},
		{TraitType: "b", Value: "2"},
	}, fields.Attributes)
}

func TestParseProperties(t *testing.T) {
	doc := `{"name": "P", "properties": {
		"color": "red",
		"size": {"value": 3},
		"files": [{"uri": "x"}]
	}}`

	fields, err := Parse([]byte(doc))
	assert.Nil(t, err)
	assert.Equal(t, []shared.Attribute{
		{TraitType: "color", Value: "red"},
		{TraitType: "size", Value: "3"},
	}, fields.Attributes)
}

func TestParseImageData(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	fields, err := Parse([]byte(`{"image_data": "<svg xmlns=\"http://www.w3.org/2000/svg\"></svg>"}`))
	assert.Nil(t, err)

	prefix := "data:image/svg+xml;base64,"
	assert.True(t, strings.HasPrefix(fields.Image, prefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(fields.Image, prefix))
	assert.Nil(t, err)
	assert.Equal(t, svg, string(decoded))
}

func TestParseInvalid(t *testing.T) {
	for _, doc := range []string{"", "null", "[1, 2]", "<html></html>", `"name"`} {
		_, err := Parse([]byte(doc))
		assert.True(t, errors.Is(err, ErrInvalidMetadata), doc)
	}
}

func TestDecodeDataURI(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"name":"b64"}`))
	data, mediaType, err := DecodeDataURI("data:application/json;base64," + encoded)
	assert.Nil(t, err)
	assert.Equal(t, "application/json", mediaType)
	assert.Equal(t, `{"name":"b64"}`, string(data))

	data, _, err = DecodeDataURI(`data:application/json,%7B%22name%22%3A%22pct%22%7D`)
	assert.Nil(t, err)
	assert.Equal(t, `{"name":"pct"}`, string(data))

	// Raw utf8 payloads with stray percent signs are used as-is
	data, mediaType, err = DecodeDataURI(`data:application/json;utf8,{"name":"100%"}`)
	assert.Nil(t, err)
	assert.Equal(t, "application/json", mediaType)
	assert.Equal(t, `{"name":"100%"}`, string(data))

	_, mediaType, err = DecodeDataURI("data:,hello")
	assert.Nil(t, err)
	assert.Equal(t, "text/plain", mediaType)

	_, _, err = DecodeDataURI("https://example.com")
	assert.True(t, errors.Is(err, ErrNotDataURI))

	_, _, err = DecodeDataURI("data:application/json;base64,!!!")
	assert.True(t, errors.Is(err, ErrNotDataURI))
}
