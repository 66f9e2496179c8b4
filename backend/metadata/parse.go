package metadata

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"satchel/shared"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidMetadata = errors.New("metadata is not a json object")
var ErrNotDataURI = errors.New("not a data uri")

// Fields holds the normalized subset of a token's metadata document
type Fields struct {
	Name         string
	Description  string
	Image        string
	AnimationURL string
	ExternalURL  string
	Collection   string
	Attributes   []shared.Attribute
}

// Parse reads a metadata document. Marketplaces disagree on key names, so the
// common variants of each field are accepted.
func Parse(data []byte) (Fields, error) {
	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(bytes.TrimSpace(data)))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	} else if raw == nil {
		return Fields{}, ErrInvalidMetadata
	}

	fields := Fields{
		Name:         firstString(raw, "name", "title"),
		Description:  firstString(raw, "description"),
		Image:        firstString(raw, "image", "image_url", "imageUrl", "imageURI"),
		AnimationURL: firstString(raw, "animation_url", "animationUrl", "animation"),
		ExternalURL:  firstString(raw, "external_url", "external_link", "externalUrl"),
		Collection:   parseCollection(raw),
	}

	if len(fields.Image) == 0 {
		fields.Image = parseImageData(firstString(raw, "image_data", "imageData"))
	}

	if attributes, ok := raw["attributes"]; ok {
		fields.Attributes = parseAttributes(attributes)
	} else if traits, ok := raw["traits"]; ok {
		fields.Attributes = parseAttributes(traits)
	}

	if len(fields.Attributes) == 0 {
		if properties, ok := raw["properties"].(map[string]any); ok {
			fields.Attributes = parseProperties(properties)
		}
	}

	return fields, nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}

		if str := strings.TrimSpace(stringify(value)); len(str) > 0 {
			return str
		}
	}

	return ""
}

func parseCollection(raw map[string]any) string {
	switch collection := raw["collection"].(type) {
	case string:
		if len(strings.TrimSpace(collection)) > 0 {
			return strings.TrimSpace(collection)
		}
	case map[string]any:
		if name := firstString(collection, "name", "family"); len(name) > 0 {
			return name
		}
	}

	return firstString(raw, "collection_name", "collectionName")
}

// parseImageData turns inline image_data into something that can be stored
// as an image URI. Raw SVG markup is wrapped in a base64 data URI.
func parseImageData(imageData string) string {
	switch {
	case len(imageData) == 0:
		return ""
	case strings.HasPrefix(strings.ToLower(imageData), "data:"):
		return imageData
	case strings.HasPrefix(imageData, "<svg"), strings.HasPrefix(imageData, "<?xml"):
		encoded := base64.StdEncoding.EncodeToString([]byte(imageData))
		return "data:image/svg+xml;base64," + encoded
	}

	return ""
}

func parseAttributes(value any) []shared.Attribute {
	var attributes []shared.Attribute

	switch list := value.(type) {
	case []any:
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}

			traitValue, hasValue := entry["value"]
			if !hasValue || traitValue == nil {
				continue
			}

			attributes = append(attributes, shared.Attribute{
				TraitType:   firstString(entry, "trait_type", "traitType", "name", "key"),
				Value:       stringify(traitValue),
				DisplayType: firstString(entry, "display_type", "displayType"),
			})
		}
	case map[string]any:
		// Some collections use {"Background": "Blue", ...} instead of a list
		for _, key := range sortedKeys(list) {
			if list[key] == nil {
				continue
			}

			attributes = append(attributes, shared.Attribute{
				TraitType: key,
				Value:     stringify(list[key]),
			})
		}
	}

	return attributes
}

func parseProperties(properties map[string]any) []shared.Attribute {
	var attributes []shared.Attribute
	for _, key := range sortedKeys(properties) {
		var value string
		switch property := properties[key].(type) {
		case string, json.Number, bool:
			value = stringify(property)
		case map[string]any:
			if nested, ok := property["value"]; ok && nested != nil {
				value = stringify(nested)
			}
		}

		if len(value) == 0 {
			continue
		}

		attributes = append(attributes, shared.Attribute{TraitType: key, Value: value})
	}

	return attributes
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(out)
	}
}

// DecodeDataURI returns the payload and media type of an RFC 2397 data URI.
// Payloads that aren't base64 are percent-decoded when possible and used
// verbatim otherwise, since plenty of on-chain metadata embeds raw JSON.
func DecodeDataURI(uri string) ([]byte, string, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(strings.ToLower(uri), "data:") {
		return nil, "", ErrNotDataURI
	}

	comma := strings.Index(uri, ",")
	if comma < 0 {
		return nil, "", fmt.Errorf("%w: missing payload", ErrNotDataURI)
	}

	header := uri[len("data:"):comma]
	payload := uri[comma+1:]

	params := strings.Split(header, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	if len(mediaType) == 0 {
		mediaType = "text/plain"
	}

	if strings.EqualFold(params[len(params)-1], "base64") {
		for _, encoding := range []*base64.Encoding{
			base64.StdEncoding,
			base64.RawStdEncoding,
			base64.URLEncoding,
			base64.RawURLEncoding,
		} {
			if data, err := encoding.DecodeString(payload); err == nil {
				return data, mediaType, nil
			}
		}

		return nil, mediaType, fmt.Errorf("%w: invalid base64 payload", ErrNotDataURI)
	}

	if decoded, err := url.PathUnescape(payload); err == nil {
		return []byte(decoded), mediaType, nil
	}

	return []byte(payload), mediaType, nil
}
