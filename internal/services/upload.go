package services

import (
	"io"
	"path/filepath"
	"strings"
)

// Upload carries a single uploaded file from the HTTP layer into a service.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// allowedModelExtensions is the explicit allow-list for geometry files.
var allowedModelExtensions = map[string]bool{
	".json": true, ".obj": true, ".fbx": true, ".gltf": true, ".glb": true,
}

// isAllowedModelFile checks if a filename carries a supported 3D model extension.
func isAllowedModelFile(filename string) bool {
	return allowedModelExtensions[strings.ToLower(filepath.Ext(filename))]
}

// checkModelUpload validates a geometry file upload, recording problems in v.
func checkModelUpload(v map[string]string, field string, up *Upload, maxBytes int64) {
	if up == nil {
		v[field] = "the " + field + " field is required"
		return
	}
	if up.Size > maxBytes {
		v[field] = "the " + field + " field exceeds the maximum upload size"
		return
	}
	if !isAllowedModelFile(up.Filename) {
		v[field] = "the " + field + " field must be a json, obj, fbx, gltf or glb file"
	}
}

// checkImageUpload validates an optional preview image upload.
func checkImageUpload(v map[string]string, field string, up *Upload, maxBytes int64) {
	if up == nil {
		return
	}
	if up.Size > maxBytes {
		v[field] = "the " + field + " field exceeds the maximum upload size"
	}
}
