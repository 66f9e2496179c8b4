package metadata

import (
	"satchel/shared"
	"time"
)

const maxErrorLen = 500

// Merge folds fetched metadata into an artifact record. Existing values are
// only replaced when force is set; empty fields are always filled. Resolved
// gateway URLs and the media type are recomputed from the resulting raw URIs.
func Merge(artifact shared.Artifact, fields Fields, resolver *Resolver, force bool) shared.Artifact {
	mergeString(&artifact.Name, fields.Name, force)
	mergeString(&artifact.Description, fields.Description, force)
	mergeString(&artifact.CollectionName, fields.Collection, force)
	mergeString(&artifact.ImageURI, fields.Image, force)
	mergeString(&artifact.AnimationURI, fields.AnimationURL, force)
	mergeString(&artifact.ExternalURL, fields.ExternalURL, force)

	if len(fields.Attributes) > 0 && (force || len(artifact.Attributes) == 0) {
		artifact.Attributes = append([]shared.Attribute(nil), fields.Attributes...)
	}

	artifact.ImageURL = resolver.GatewayURL(artifact.ImageURI)
	artifact.AnimationURL = resolver.GatewayURL(artifact.AnimationURI)
	artifact.MediaType = MediaTypeForFields(artifact.ImageURI, "", artifact.AnimationURI, "")

	artifact.MetadataStatus = shared.MetadataOK
	artifact.MetadataError = ""
	artifact.MetadataUpdated = time.Now().UTC()
	artifact.Modified = artifact.MetadataUpdated

	return artifact
}

// MarkFailed records a fetch failure on the artifact without touching any of
// its existing metadata.
func MarkFailed(artifact shared.Artifact, err error) shared.Artifact {
	message := err.Error()
	if len(message) > maxErrorLen {
		message = message[:maxErrorLen]
	}

	artifact.MetadataStatus = shared.MetadataFailed
	artifact.MetadataError = message
	artifact.MetadataUpdated = time.Now().UTC()
	artifact.Modified = artifact.MetadataUpdated

	return artifact
}

func mergeString(dst *string, value string, force bool) {
	if len(value) == 0 {
		return
	}

	if force || len(*dst) == 0 {
		*dst = value
	}
}
